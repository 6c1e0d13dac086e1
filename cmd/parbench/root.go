package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/internal/config"
	"github.com/utkarsh5026/parx/parallel"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// app carries the state shared by all subcommands.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"threads":    "num_threads",
	"workers":    "max_workers",
	"backend":    "backend",
	"schedule":   "schedule",
	"pin":        "pin_workers",
	"log-level":  "log_level",
	"log-format": "log_format",
}

func registerFlags(fs *pflag.FlagSet, a *app) {
	fs.StringVar(&a.configFile, "config", "", "path to a config file (yaml, json or toml)")
	fs.Int("threads", 0, "partitions per loop (0 = GOMAXPROCS)")
	fs.Int("workers", 0, "backend workers (0 = GOMAXPROCS)")
	fs.String("backend", "auto", "auto, pinned, goroutine, pool or sequential")
	fs.String("schedule", "static", "static or dynamic[,chunk]")
	fs.String("pin", "auto", "pin workers to cores: auto, true or false")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "console", "console or json")
}

func bindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "parbench",
		Short:         "Inspect and benchmark parx execution backends",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	registerFlags(cmd.PersistentFlags(), a)
	cobra.CheckErr(bindFlags(cmd.PersistentFlags(), a.v))

	cmd.AddCommand(newInfoCmd(a), newRunCmd(a), newBarrierCmd(a))
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.Named("parbench")
	a.logger.Debug("configuration loaded",
		zap.Int("num_threads", cfg.NumThreads),
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.String("backend", cfg.Backend),
		zap.String("schedule", cfg.Schedule),
		zap.String("pin_workers", cfg.PinWorkers),
	)
	return nil
}

// executor builds an executor from the loaded configuration; extra options
// are applied last and win.
func (a *app) executor(extra ...parallel.Option) (*parallel.Executor, error) {
	opts, err := a.cfg.ExecutorOptions(a.logger)
	if err != nil {
		return nil, err
	}
	return parallel.New(append(opts, extra...)...)
}
