//go:build windows

package cpu

import (
	"fmt"
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// AffinitySupported reports whether workers can be pinned to cores.
func AffinitySupported() bool { return true }

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
// Returns the previous affinity mask on success.
func pinToCore(cpuID int) (uintptr, error) {
	numCPU := min(runtime.NumCPU(), 64)
	cpuID %= numCPU

	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	mask := uintptr(1) << uint(cpuID)

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return 0, err
	}
	return prevMask, nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to a core derived from workerID. The returned cleanup restores
// the previous mask and unlocks the thread.
func SetupWorkerAffinity(workerID int) (func(), error) {
	if workerID < 0 {
		return nil, fmt.Errorf("pin worker %d: negative worker id", workerID)
	}
	runtime.LockOSThread()

	prev, err := pinToCore(workerID)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("pin worker %d: %w", workerID, err)
	}

	return func() {
		handle, _, _ := getCurrentThread.Call()
		_, _, _ = setThreadAffinityMask.Call(handle, prev)
		runtime.UnlockOSThread()
	}, nil
}
