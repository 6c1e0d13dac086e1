// Package cpu describes the host processor and pins worker threads to cores.
package cpu

import (
	"errors"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// ErrAffinityUnsupported is returned when the platform cannot pin threads.
var ErrAffinityUnsupported = errors.New("cpu affinity not supported on this platform")

// Probe is the snapshot of the runtime environment used to pick a backend.
type Probe struct {
	NumCPU            int
	MaxProcs          int
	AffinitySupported bool
}

// Detect samples the current process.
func Detect() Probe {
	return Probe{
		NumCPU:            runtime.NumCPU(),
		MaxProcs:          runtime.GOMAXPROCS(0),
		AffinitySupported: AffinitySupported(),
	}
}

// Parallel reports whether goroutines can really run simultaneously.
func (p Probe) Parallel() bool {
	return p.MaxProcs > 1 && p.NumCPU > 1
}

// NumProcs returns the number of logical processors usable by the process.
func NumProcs() int {
	return runtime.NumCPU()
}

// Info is a human readable description of the processor.
type Info struct {
	Brand          string
	Vendor         string
	PhysicalCores  int
	LogicalCores   int
	ThreadsPerCore int
	CacheLine      int
	L1D            int
	L2             int
	L3             int
	Features       []string
}

// Describe reads the processor identification. Fields cpuid cannot
// determine on this architecture fall back to the runtime's view.
func Describe() Info {
	c := cpuid.CPU
	info := Info{
		Brand:          c.BrandName,
		Vendor:         c.VendorString,
		PhysicalCores:  c.PhysicalCores,
		LogicalCores:   c.LogicalCores,
		ThreadsPerCore: c.ThreadsPerCore,
		CacheLine:      c.CacheLine,
		L1D:            c.Cache.L1D,
		L2:             c.Cache.L2,
		L3:             c.Cache.L3,
		Features:       c.FeatureSet(),
	}
	if info.Brand == "" {
		info.Brand = runtime.GOARCH
	}
	if info.LogicalCores <= 0 {
		info.LogicalCores = runtime.NumCPU()
	}
	if info.PhysicalCores <= 0 {
		info.PhysicalCores = info.LogicalCores
	}
	if info.ThreadsPerCore <= 0 {
		info.ThreadsPerCore = 1
	}
	return info
}
