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

package ellspmv

import (
	"runtime"
	"sync"

	"github.com/samber/lo"
)

// Option configures the row-parallel scheduler.
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers overrides the number of worker goroutines used to partition
// row-blocks. A value <= 0 means "use runtime.GOMAXPROCS(0)", the default.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

func newConfig(opts []Option) config {
	c := config{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&c)
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// parallelRows splits [0, rows) into a static, contiguous row-block
// partition and hands each range to fn on its own goroutine. Boundaries
// fall on blockRows multiples wherever possible so a worker's range
// still contains whole row-blocks for the small-RHS kernel to vectorize.
// Grounded on workerpool.ParallelFor's fixed chunkSize partition, chosen
// over the work-stealing channel queue used elsewhere in the family
// because every (r,j) output cell must be owned by exactly one thread
// with no cross-thread reduction.
func parallelRows(rows int, opts []Option, fn func(start, end int)) {
	if rows <= 0 {
		return
	}
	cfg := newConfig(opts)

	numBlocks := (rows + blockRows - 1) / blockRows
	workers := min(cfg.workers, numBlocks)
	if workers <= 1 {
		fn(0, rows)
		return
	}

	blocks := lo.Range(numBlocks)
	blocksPerWorker := (numBlocks + workers - 1) / workers
	chunks := lo.Chunk(blocks, blocksPerWorker)

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, chunk := range chunks {
		start := chunk[0] * blockRows
		end := min((chunk[len(chunk)-1]+1)*blockRows, rows)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
