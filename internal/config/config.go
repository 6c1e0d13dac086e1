package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/utkarsh5026/parx/parallel"
)

// Config is the resolved process configuration.
type Config struct {
	NumThreads int    `mapstructure:"num_threads" default:"0"`
	MaxWorkers int    `mapstructure:"max_workers" default:"0"`
	Backend    string `mapstructure:"backend" default:"auto"`
	Schedule   string `mapstructure:"schedule" default:"static"`
	PinWorkers string `mapstructure:"pin_workers" default:"auto"`
	LogLevel   string `mapstructure:"log_level" default:"info"`
	LogFormat  string `mapstructure:"log_format" default:"console"`
}

// envBindings lists, per key, the environment variables read for it in
// order of precedence.
var envBindings = map[string][]string{
	"num_threads": {"PARX_NUM_THREADS", "OMP_NUM_THREADS"},
	"max_workers": {"PARX_MAX_WORKERS"},
	"backend":     {"PARX_BACKEND"},
	"schedule":    {"PARX_SCHEDULE", "OMP_SCHEDULE"},
	"pin_workers": {"PARX_PIN_WORKERS"},
	"log_level":   {"PARX_LOG_LEVEL"},
	"log_format":  {"PARX_LOG_FORMAT"},
}

// Load fills a Config from v. Struct defaults apply first, then the config
// file (when configFile is not empty), environment variables and whatever
// flags the caller bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var err error
	if c.NumThreads < 0 {
		err = multierr.Append(err, fmt.Errorf("num_threads: %d is negative", c.NumThreads))
	}
	if c.MaxWorkers < 0 {
		err = multierr.Append(err, fmt.Errorf("max_workers: %d is negative", c.MaxWorkers))
	}
	if _, perr := parallel.ParseBackend(c.Backend); perr != nil {
		err = multierr.Append(err, fmt.Errorf("backend: %w", perr))
	}
	if _, _, perr := ParseSchedule(c.Schedule); perr != nil {
		err = multierr.Append(err, fmt.Errorf("schedule: %w", perr))
	}
	if _, perr := parsePin(c.PinWorkers); perr != nil {
		err = multierr.Append(err, fmt.Errorf("pin_workers: %w", perr))
	}
	if _, perr := zapcore.ParseLevel(c.LogLevel); perr != nil {
		err = multierr.Append(err, fmt.Errorf("log_level: %w", perr))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		err = multierr.Append(err, fmt.Errorf("log_format: %q is not console or json", c.LogFormat))
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ParseSchedule parses "static", "dynamic" or "dynamic,<chunk>" the way
// OMP_SCHEDULE spells them. A missing chunk is returned as 0, and ExecutorOptions
// then keeps the executor's default chunk size.
func ParseSchedule(s string) (parallel.Schedule, int, error) {
	kind, chunkStr, hasChunk := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ",")

	var sched parallel.Schedule
	switch strings.TrimSpace(kind) {
	case "", "static":
		sched = parallel.ScheduleStatic
	case "dynamic":
		sched = parallel.ScheduleDynamic
	default:
		return 0, 0, fmt.Errorf("unsupported schedule %q", s)
	}

	if !hasChunk {
		return sched, 0, nil
	}
	chunk, err := strconv.Atoi(strings.TrimSpace(chunkStr))
	if err != nil || chunk <= 0 {
		return 0, 0, fmt.Errorf("invalid chunk size in %q", s)
	}
	return sched, chunk, nil
}

// parsePin maps "auto" to nil and booleans to themselves.
func parsePin(s string) (*bool, error) {
	if strings.EqualFold(strings.TrimSpace(s), "auto") || s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not auto or a boolean", s)
	}
	return &b, nil
}

// ExecutorOptions translates the configuration into parallel options.
func (c *Config) ExecutorOptions(logger *zap.Logger) ([]parallel.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	kind, _ := parallel.ParseBackend(c.Backend)
	sched, chunk, _ := ParseSchedule(c.Schedule)
	pin, _ := parsePin(c.PinWorkers)

	opts := []parallel.Option{
		parallel.WithBackend(kind),
		parallel.WithSchedule(sched),
		parallel.WithLogger(logger),
	}
	if c.NumThreads > 0 {
		opts = append(opts, parallel.WithNumThreads(c.NumThreads))
	}
	if c.MaxWorkers > 0 {
		opts = append(opts, parallel.WithMaxWorkers(c.MaxWorkers))
	}
	if chunk > 0 {
		opts = append(opts, parallel.WithChunkSize(chunk))
	}
	if pin != nil {
		opts = append(opts, parallel.WithPinnedWorkers(*pin))
	}
	return opts, nil
}

// NewLogger builds the zap logger described by LogLevel and LogFormat.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}

	zc := zap.NewDevelopmentConfig()
	if c.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
