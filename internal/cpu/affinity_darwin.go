//go:build darwin

package cpu

import "fmt"

// AffinitySupported reports whether workers can be pinned to cores.
// macOS only offers affinity hints, so pinning is unavailable.
func AffinitySupported() bool { return false }

// SetupWorkerAffinity always fails on macOS.
func SetupWorkerAffinity(workerID int) (func(), error) {
	return nil, fmt.Errorf("pin worker %d: %w", workerID, ErrAffinityUnsupported)
}
