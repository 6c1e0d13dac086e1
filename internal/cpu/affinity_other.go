//go:build !linux && !darwin && !windows

package cpu

import "fmt"

// AffinitySupported reports whether workers can be pinned to cores.
func AffinitySupported() bool { return false }

// SetupWorkerAffinity always fails on platforms without pinning support.
func SetupWorkerAffinity(workerID int) (func(), error) {
	return nil, fmt.Errorf("pin worker %d: %w", workerID, ErrAffinityUnsupported)
}
