package parallel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/parx/internal/cpu"
)

const testThreads = 4

// availableBackends returns every backend that can be built on this host.
func availableBackends() []BackendKind {
	kinds := []BackendKind{BackendGoroutine, BackendPool, BackendSequential}
	if cpu.AffinitySupported() {
		kinds = append([]BackendKind{BackendPinned}, kinds...)
	}
	return kinds
}

func newTestExecutor(t testing.TB, kind BackendKind, opts ...Option) *Executor {
	t.Helper()
	base := []Option{
		WithBackend(kind),
		WithNumThreads(testThreads),
		WithMaxWorkers(testThreads),
	}
	e, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

// runBackendTest runs fn once per backend, each against a fresh executor
// with testThreads threads and workers.
func runBackendTest(t *testing.T, fn func(t *testing.T, e *Executor), opts ...Option) {
	t.Helper()
	for _, kind := range availableBackends() {
		t.Run(kind.String(), func(t *testing.T) {
			fn(t, newTestExecutor(t, kind, opts...))
		})
	}
}
