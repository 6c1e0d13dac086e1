//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// AffinitySupported reports whether workers can be pinned to cores.
func AffinitySupported() bool { return true }

// allowedCPUs returns the CPUs the current thread may run on, in order.
func allowedCPUs(set *unix.CPUSet) []int {
	cpus := make([]int, 0, set.Count())
	for i := 0; i < len(set)*64 && len(cpus) < cap(cpus); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus
}

// pinToCore pins the current OS thread to one of the CPUs in allowed,
// chosen by workerID. Must be called after runtime.LockOSThread().
func pinToCore(workerID int, allowed *unix.CPUSet) (int, error) {
	cpus := allowedCPUs(allowed)
	if len(cpus) == 0 {
		return 0, fmt.Errorf("no cpu available in affinity mask")
	}
	cpuID := cpus[workerID%len(cpus)]

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}
	return cpuID, nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to a core derived from workerID. The returned cleanup restores
// the original mask and unlocks the thread; it must run on the same
// goroutine.
func SetupWorkerAffinity(workerID int) (func(), error) {
	if workerID < 0 {
		return nil, fmt.Errorf("pin worker %d: negative worker id", workerID)
	}
	runtime.LockOSThread()

	var orig unix.CPUSet
	if err := unix.SchedGetaffinity(0, &orig); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("pin worker %d: read affinity: %w", workerID, err)
	}
	if _, err := pinToCore(workerID, &orig); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("pin worker %d: %w", workerID, err)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &orig)
		runtime.UnlockOSThread()
	}, nil
}
