package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parx/compat"
	"github.com/utkarsh5026/parx/internal/cpu"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show processor details and the backend parx would select",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.info()
		},
	}
}

func formatBytes(n int) string {
	switch {
	case n <= 0:
		return "-"
	case n >= 1<<20:
		return fmt.Sprintf("%d MiB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%d KiB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (a *app) info() error {
	info := cpu.Describe()
	probe := cpu.Detect()

	_, _ = bold.Println("Processor")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	rows := [][]string{
		{"Brand", info.Brand},
		{"Vendor", info.Vendor},
		{"Physical cores", fmt.Sprint(info.PhysicalCores)},
		{"Logical cores", fmt.Sprint(info.LogicalCores)},
		{"Threads per core", fmt.Sprint(info.ThreadsPerCore)},
		{"Cache line", formatBytes(info.CacheLine)},
		{"L1D / L2 / L3", strings.Join([]string{formatBytes(info.L1D), formatBytes(info.L2), formatBytes(info.L3)}, " / ")},
		{"Usable processors", fmt.Sprint(compat.GetNumProcs())},
		{"GOMAXPROCS", fmt.Sprint(probe.MaxProcs)},
	}
	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Println()
	_, _ = bold.Println("Runtime")
	affinity := red.Sprint("unsupported")
	if probe.AffinitySupported {
		affinity = green.Sprint("supported")
	}
	parallelism := yellow.Sprint("no")
	if probe.Parallel() {
		parallelism = green.Sprint("yes")
	}
	fmt.Printf("  thread affinity:      %s\n", affinity)
	fmt.Printf("  parallel goroutines:  %s\n", parallelism)

	e, err := a.executor()
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Printf("  selected backend:     %s\n", cyan.Sprint(e.Backend()))
	fmt.Printf("  threads / workers:    %d / %d\n", e.NumThreads(), e.MaxWorkers())
	if len(info.Features) > 0 {
		fmt.Printf("  cpu features:         %s\n", strings.Join(info.Features, " "))
	}
	return nil
}
