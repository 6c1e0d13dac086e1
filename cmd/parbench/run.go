package main

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/internal/cpu"
	"github.com/utkarsh5026/parx/parallel"
)

// workload runs one benchmark on e and returns a printable digest of its
// result; equal digests across backends mean equal results.
type workload struct {
	name string
	run  func(ctx context.Context, e *parallel.Executor, n int) (string, error)
}

var workloads = []workload{
	{name: "reduce", run: reduceWorkload},
	{name: "for", run: forWorkload},
	{name: "dynamic", run: dynamicWorkload},
	{name: "sort", run: sortWorkload},
}

func reduceWorkload(ctx context.Context, e *parallel.Executor, n int) (string, error) {
	sum, err := parallel.Reduce(ctx, e, 0, n, 0.0,
		func(a, b float64) float64 { return a + b },
		func(_ context.Context, i int) (float64, error) {
			return math.Sin(float64(i)) / float64(i+1), nil
		})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", math.Float64bits(sum)), nil
}

func forWorkload(ctx context.Context, e *parallel.Executor, n int) (string, error) {
	out := make([]uint64, n)
	err := e.For(ctx, 0, n, func(_ context.Context, i int) error {
		x := uint64(i)
		out[i] = x*x ^ x>>3
		return nil
	})
	if err != nil {
		return "", err
	}
	var h uint64
	for _, v := range out {
		h = h*31 + v
	}
	return fmt.Sprintf("%016x", h), nil
}

func dynamicWorkload(ctx context.Context, e *parallel.Executor, n int) (string, error) {
	acc := parallel.NewReduction(e, uint64(0), func(a, b uint64) uint64 { return a + b })
	err := e.For(ctx, 0, n, func(ctx context.Context, i int) error {
		// uneven cost per index
		v := uint64(i)
		for range i % 64 {
			v = v*6364136223846793005 + 1442695040888963407
		}
		acc.Update(ctx, v>>32)
		return nil
	}, parallel.Dynamic(256))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", acc.Combine()), nil
}

func sortWorkload(ctx context.Context, e *parallel.Executor, n int) (string, error) {
	rng := rand.New(rand.NewPCG(42, 7))
	items := make([]int, n)
	for i := range items {
		items[i] = rng.IntN(n)
	}
	if err := parallel.Sort(ctx, e, items, cmp.Compare[int]); err != nil {
		return "", err
	}
	if !slices.IsSorted(items) {
		return "", fmt.Errorf("sort workload produced unsorted output")
	}
	var h uint64
	for _, v := range items {
		h = h*31 + uint64(v)
	}
	return fmt.Sprintf("%016x", h), nil
}

type runResult struct {
	workload string
	backend  parallel.BackendKind
	best     time.Duration
	mean     time.Duration
	digest   string
	err      error
}

func newRunCmd(a *app) *cobra.Command {
	var (
		size       int
		iterations int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark every backend on the same workloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 || iterations <= 0 {
				return fmt.Errorf("--size and --iterations must be positive")
			}
			return a.run(cmd.Context(), size, iterations, !noProgress)
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 1_000_000, "elements per workload")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", 3, "timed iterations per backend")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func usableBackends() []parallel.BackendKind {
	var kinds []parallel.BackendKind
	for _, k := range parallel.Backends() {
		if k == parallel.BackendPinned && !cpu.AffinitySupported() {
			continue
		}
		kinds = append(kinds, k)
	}
	return kinds
}

func (a *app) run(ctx context.Context, size, iterations int, progress bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	kinds := usableBackends()

	var bar *progressbar.ProgressBar
	if progress {
		_, _ = bold.Println("Running Benchmarks...")
		bar = progressbar.NewOptions(len(kinds)*len(workloads)*iterations,
			progressbar.OptionSetDescription("Benchmarking"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var results []runResult
	for _, kind := range kinds {
		e, err := a.executor(parallel.WithBackend(kind))
		if err != nil {
			a.logger.Warn("backend unavailable", zap.Stringer("backend", kind), zap.Error(err))
			continue
		}
		for _, w := range workloads {
			if bar != nil {
				bar.Describe(fmt.Sprintf("Testing: %s/%s", w.name, kind))
			}
			results = append(results, measure(ctx, e, kind, w, size, iterations, bar))
		}
		e.Close()
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return renderResults(results)
}

func measure(ctx context.Context, e *parallel.Executor, kind parallel.BackendKind, w workload, size, iterations int, bar *progressbar.ProgressBar) runResult {
	res := runResult{workload: w.name, backend: kind, best: time.Duration(math.MaxInt64)}

	var total time.Duration
	for range iterations {
		start := time.Now()
		digest, err := w.run(ctx, e, size)
		elapsed := time.Since(start)
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			res.err = err
			return res
		}
		res.digest = digest
		res.best = min(res.best, elapsed)
		total += elapsed
	}
	res.mean = total / time.Duration(iterations)
	return res
}

func renderResults(results []runResult) error {
	// the first backend that succeeded is the reference for each workload
	reference := map[string]string{}
	for _, r := range results {
		if _, ok := reference[r.workload]; !ok && r.err == nil {
			reference[r.workload] = r.digest
		}
	}

	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Workload", "Backend", "Best", "Mean", "Result", "Match")

	mismatches := 0
	for _, r := range results {
		if r.err != nil {
			_ = table.Append(r.workload, r.backend.String(), "-", "-", red.Sprint(r.err.Error()), red.Sprint("error"))
			mismatches++
			continue
		}
		match := green.Sprint("yes")
		if r.digest != reference[r.workload] {
			match = red.Sprint("NO")
			mismatches++
		}
		_ = table.Append(
			r.workload,
			r.backend.String(),
			r.best.Round(time.Microsecond).String(),
			r.mean.Round(time.Microsecond).String(),
			r.digest,
			match,
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	if mismatches > 0 {
		return fmt.Errorf("%d results differ between backends or failed", mismatches)
	}
	_, _ = green.Println("All backends produced identical results.")
	return nil
}
