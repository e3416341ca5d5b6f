// Command q32metrics sweeps the Q32 fixed-point round-trip property
// spec.md §8 states — "for all f in [-32768, 32767.99998],
// |to_f32(from_f32(f)) - f| <= 1/65536" — over a configurable step and
// reports summary statistics on the observed error, plus per-builtin
// timing when -bench is set.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ledfx/lpglsl/builtin"
	"github.com/ledfx/lpglsl/q32"
)

var (
	stepFlag  = flag.Float64("step", 0.01, "sweep step size")
	benchFlag = flag.Bool("bench", false, "also time every registered builtin's Call path")
)

// sampleStats mirrors lp-shared/stats::compute_sample_stats's avg/sdev/
// min/max shape (original_source/lp-core/lp-shared/src/stats/mod.rs) —
// this tool's only consumer of that algorithm, so it's reimplemented
// locally rather than promoted to a shared package.
type sampleStats struct {
	Avg, Sdev, Min, Max float64
	N                   int
}

func computeSampleStats(values []float64) sampleStats {
	n := len(values)
	if n == 0 {
		return sampleStats{}
	}
	min, max := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	avg := sum / float64(n)
	variance := 0.0
	if n > 1 {
		for _, v := range values {
			d := v - avg
			variance += d * d
		}
		variance /= float64(n)
	}
	return sampleStats{Avg: avg, Sdev: math.Sqrt(variance), Min: min, Max: max, N: n}
}

func main() {
	flag.Parse()

	const lo, hi = -32768.0, 32767.99998
	var errs []float64
	for f := lo; f <= hi; f += *stepFlag {
		q := q32.FromFloat32(float32(f))
		back := q32.ToFloat32(q)
		errs = append(errs, math.Abs(float64(back)-f))
	}

	stats := computeSampleStats(errs)
	fmt.Printf("Q32 round-trip error over [%.5f, %.5f] step=%v (n=%d)\n", lo, hi, *stepFlag, stats.N)
	fmt.Printf("  avg=%.8f sdev=%.8f min=%.8f max=%.8f\n", stats.Avg, stats.Sdev, stats.Min, stats.Max)

	const bound = 1.0 / 65536.0
	if stats.Max > bound {
		fmt.Fprintf(os.Stderr, "FAIL: max error %.8f exceeds spec bound %.8f\n", stats.Max, bound)
		os.Exit(1)
	}
	fmt.Printf("  within spec bound %.8f: OK\n", bound)

	if *benchFlag {
		runBench()
	}
}

func runBench() {
	fmt.Println("\nBuiltin call timings:")
	args := []int32{q32.FromFloat32(0.5), q32.FromFloat32(0.25), q32.FromFloat32(0.125)}
	for _, id := range builtin.AllIDs() {
		name, _ := builtin.Symbol(id)
		const iterations = 10000
		start := time.Now()
		for i := 0; i < iterations; i++ {
			if _, err := builtin.Call(id, args); err != nil {
				fmt.Fprintf(os.Stderr, "  %-24s error: %v\n", name, err)
				break
			}
		}
		elapsed := time.Since(start)
		fmt.Printf("  %-24s %v/call\n", name, elapsed/iterations)
	}
}
