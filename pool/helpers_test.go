package pool

import (
	"testing"

	"github.com/utkarsh5026/parx/internal/cpu"
)

// poolConfig defines a test configuration for a pool variant
type poolConfig struct {
	name string
	opts []Option
}

// getAllConfigs returns every pool variant usable on this platform
func getAllConfigs(workerCount int) []poolConfig {
	configs := []poolConfig{
		{
			name: "Unpinned",
			opts: []Option{WithWorkers(workerCount)},
		},
	}
	if cpu.AffinitySupported() {
		configs = append(configs, poolConfig{
			name: "Pinned",
			opts: []Option{WithWorkers(workerCount), WithPinnedWorkers(true)},
		})
	}
	return configs
}

// runPoolTest runs fn once per pool variant, each against a fresh pool that
// is shut down when the subtest ends.
func runPoolTest(t *testing.T, workerCount int, fn func(t *testing.T, p *ThreadPool)) {
	t.Helper()
	for _, c := range getAllConfigs(workerCount) {
		t.Run(c.name, func(t *testing.T) {
			p, err := New(c.opts...)
			if err != nil {
				t.Fatalf("failed to create pool: %v", err)
			}
			defer p.Shutdown()
			fn(t, p)
		})
	}
}

// withPin replaces the affinity setup run by pinned workers.
func withPin(pin func(workerID int) (func(), error)) Option {
	return func(cfg *config) {
		cfg.pin = pin
	}
}
