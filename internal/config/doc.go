// Package config resolves process-level settings for parx programs from
// flags, environment variables and an optional config file.
//
// # Settings
//
//	┌─────────────┬───────────┬───────────────────────────────┬──────────────────────────────────────┐
//	│ Key         │ Default   │ Environment                   │ Description                          │
//	├─────────────┼───────────┼───────────────────────────────┼──────────────────────────────────────┤
//	│ num_threads │ 0         │ PARX_NUM_THREADS, OMP_NUM_... │ Partitions per loop, 0 = GOMAXPROCS  │
//	│ max_workers │ 0         │ PARX_MAX_WORKERS              │ Backend workers, 0 = GOMAXPROCS      │
//	│ backend     │ "auto"    │ PARX_BACKEND                  │ auto|pinned|goroutine|pool|sequential│
//	│ schedule    │ "static"  │ PARX_SCHEDULE, OMP_SCHEDULE   │ static or dynamic[,chunk]            │
//	│ pin_workers │ "auto"    │ PARX_PIN_WORKERS              │ auto, true or false                  │
//	│ log_level   │ "info"    │ PARX_LOG_LEVEL                │ zap level name                       │
//	│ log_format  │ "console" │ PARX_LOG_FORMAT               │ console or json                      │
//	└─────────────┴───────────┴───────────────────────────────┴──────────────────────────────────────┘
//
// The PARX_ variables win over their OMP_ fallbacks. OMP_NUM_THREADS only
// accepts a single count; nested lists are rejected.
//
// # Usage
//
//	v := viper.New()
//	cfg, err := config.Load(v, "")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.ExecutorOptions(logger)
//	e, err := parallel.New(opts...)
package config
