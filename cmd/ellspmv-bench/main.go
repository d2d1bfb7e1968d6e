// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ellspmv-bench builds a synthetic ELL matrix and a dense
// right-hand side, runs SpMV64, and reports throughput and the CPU
// dispatch level ellspmv chose at startup.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-highway/ellspmv/ellspmv"
	"github.com/go-highway/ellspmv/hwy"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rows, cols, k, rhs, workers, repeat int

	cmd := &cobra.Command{
		Use:   "ellspmv-bench",
		Short: "Benchmark the ELL sparse matrix x dense matrix kernel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(rows, cols, k, rhs, workers, repeat)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 100_000, "number of rows in A")
	cmd.Flags().IntVar(&cols, "cols", 100_000, "number of columns in A (rows of B)")
	cmd.Flags().IntVar(&k, "k", 8, "non-zeros per row")
	cmd.Flags().IntVar(&rhs, "rhs", 1, "number of right-hand sides (columns of B)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&repeat, "repeat", 5, "number of timed repetitions")

	return cmd
}

func runBench(rows, cols, k, rhs, workers, repeat int) error {
	a := randomELL(rows, cols, k)
	b := randomDense(cols, rhs)
	c := ellspmv.NewDense[float64](rows, rhs)

	opts := []ellspmv.Option{}
	if workers > 0 {
		opts = append(opts, ellspmv.WithWorkers(workers))
	}

	// Warm-up run outside the timed loop.
	ellspmv.SpMV64(a, b, c, opts...)

	start := time.Now()
	for i := 0; i < repeat; i++ {
		ellspmv.SpMV64(a, b, c, opts...)
	}
	elapsed := time.Since(start)

	flops := 2.0 * float64(rows) * float64(k) * float64(rhs) * float64(repeat)
	gflops := flops / elapsed.Seconds() / 1e9

	fmt.Printf("dispatch level: %s (%d-byte vectors)\n", hwy.CurrentLevel(), hwy.CurrentWidth())
	fmt.Printf("rows=%d cols=%d k=%d rhs=%d workers=%d\n", rows, cols, k, rhs, workers)
	fmt.Printf("elapsed: %s for %d iterations\n", elapsed, repeat)
	fmt.Printf("throughput: %.3f GFLOP/s\n", gflops)
	return nil
}

// randomELL builds a synthetic ELL matrix with k distinct random column
// indices per row and random float64 values.
func randomELL(rows, cols, k int) *ellspmv.ELL[float64, int32] {
	values := make([]float64, rows*k)
	colIdxs := make([]int32, rows*k)

	rng := rand.New(rand.NewSource(1))
	for r := 0; r < rows; r++ {
		used := make(map[int32]struct{}, k)
		for i := 0; i < k; i++ {
			var col int32
			for {
				col = int32(rng.Intn(cols))
				if _, seen := used[col]; !seen {
					used[col] = struct{}{}
					break
				}
			}
			colIdxs[r+i*rows] = col
			values[r+i*rows] = rng.NormFloat64()
		}
	}

	return &ellspmv.ELL[float64, int32]{
		Rows:    rows,
		Cols:    cols,
		K:       k,
		Stride:  rows,
		Values:  values,
		ColIdxs: colIdxs,
	}
}

func randomDense(rows, cols int) *ellspmv.Dense[float64] {
	d := ellspmv.NewDense[float64](rows, cols)
	rng := rand.New(rand.NewSource(2))
	for i := range d.Values {
		d.Values[i] = rng.NormFloat64()
	}
	return d
}
