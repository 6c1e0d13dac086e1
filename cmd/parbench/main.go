// Command parbench inspects the host and benchmarks every parx backend on
// the same workloads, checking that they all compute the same results.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
