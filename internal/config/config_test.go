package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/parallel"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, name := range envs {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, &Config{
		NumThreads: 0,
		MaxWorkers: 0,
		Backend:    "auto",
		Schedule:   "static",
		PinWorkers: "auto",
		LogLevel:   "info",
		LogFormat:  "console",
	}, cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Run("parx variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARX_NUM_THREADS", "6")
		t.Setenv("PARX_BACKEND", "pool")
		t.Setenv("PARX_SCHEDULE", "dynamic,32")
		t.Setenv("PARX_PIN_WORKERS", "false")

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.NumThreads)
		assert.Equal(t, "pool", cfg.Backend)
		assert.Equal(t, "dynamic,32", cfg.Schedule)
		assert.Equal(t, "false", cfg.PinWorkers)
	})

	t.Run("omp fallbacks", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OMP_NUM_THREADS", "3")
		t.Setenv("OMP_SCHEDULE", "dynamic")

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.NumThreads)
		assert.Equal(t, "dynamic", cfg.Schedule)
	})

	t.Run("parx wins over omp", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OMP_NUM_THREADS", "3")
		t.Setenv("PARX_NUM_THREADS", "5")

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.NumThreads)
	})

	t.Run("invalid values are reported together", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARX_BACKEND", "tbb")
		t.Setenv("PARX_SCHEDULE", "guided")

		_, err := Load(viper.New(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, parallel.ErrUnknownBackend)
		assert.Contains(t, err.Error(), "schedule")
	})
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "parx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_threads: 12\nbackend: goroutine\nlog_level: debug\n"), 0o600))

	t.Setenv("PARX_BACKEND", "sequential")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.NumThreads)
	assert.Equal(t, "sequential", cfg.Backend, "environment wins over the file")
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		in      string
		sched   parallel.Schedule
		chunk   int
		wantErr bool
	}{
		{"", parallel.ScheduleStatic, 0, false},
		{"static", parallel.ScheduleStatic, 0, false},
		{"STATIC,4", parallel.ScheduleStatic, 4, false},
		{"dynamic", parallel.ScheduleDynamic, 0, false},
		{"dynamic, 16", parallel.ScheduleDynamic, 16, false},
		{"dynamic,0", 0, 0, true},
		{"dynamic,x", 0, 0, true},
		{"guided", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sched, chunk, err := ParseSchedule(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sched, sched)
			assert.Equal(t, tt.chunk, chunk)
		})
	}
}

func TestExecutorOptions(t *testing.T) {
	cfg := &Config{
		NumThreads: 3,
		MaxWorkers: 2,
		Backend:    "pool",
		Schedule:   "dynamic,8",
		PinWorkers: "auto",
		LogLevel:   "warn",
		LogFormat:  "json",
	}

	logger, err := cfg.NewLogger()
	require.NoError(t, err)

	opts, err := cfg.ExecutorOptions(logger)
	require.NoError(t, err)

	e, err := parallel.New(opts...)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, parallel.BackendPool, e.Backend())
	assert.Equal(t, 3, e.NumThreads())
	assert.Equal(t, 2, e.MaxWorkers())

	cfg.Backend = "nope"
	_, err = cfg.ExecutorOptions(logger)
	assert.Error(t, err)
}

func TestExecutorOptions_ScheduleChunk(t *testing.T) {
	tests := []struct {
		schedule string
		ranges   int64
	}{
		{"dynamic", 12},
		{"dynamic,4", 3},
		{"dynamic,5", 3},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			cfg := &Config{
				NumThreads: 2,
				MaxWorkers: 2,
				Backend:    "goroutine",
				Schedule:   tt.schedule,
				PinWorkers: "auto",
				LogLevel:   "info",
				LogFormat:  "console",
			}
			opts, err := cfg.ExecutorOptions(zap.NewNop())
			require.NoError(t, err)

			e, err := parallel.New(opts...)
			require.NoError(t, err)
			defer e.Close()

			var ranges atomic.Int64
			err = e.ForRange(context.Background(), 0, 12, func(ctx context.Context, r parallel.Range) error {
				ranges.Add(1)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.ranges, ranges.Load())
		})
	}
}
