package sim

import (
	"sync"

	"github.com/pthm-cable/slime/grid"
)

// parallelThreshold is the minimum grid height to split diffusion across
// workers. Below this, single-threaded is faster due to channel overhead.
const parallelThreshold = 64

// diffuseChunk is a range of output rows for a worker to process.
type diffuseChunk struct {
	src, dst *grid.Grid
	decay    float32
	y0, y1   int
}

// workerPool holds persistent diffusion workers. Chunks are sent by value,
// so dispatching a step allocates nothing.
type workerPool struct {
	numWorkers int
	workChan   chan diffuseChunk
	doneChan   chan struct{}
	wg         sync.WaitGroup
}

func newWorkerPool(numWorkers int) *workerPool {
	p := &workerPool{
		numWorkers: numWorkers,
		workChan:   make(chan diffuseChunk, numWorkers),
		doneChan:   make(chan struct{}, numWorkers),
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for chunk := range p.workChan {
		chunk.src.DiffuseDecayRows(chunk.dst, chunk.decay, chunk.y0, chunk.y1)
		p.doneChan <- struct{}{}
	}
}

// diffuse splits src's rows across the workers and waits for all of them.
// Every output cell is computed by the same expression as the sequential
// path, so the result does not depend on the split.
func (p *workerPool) diffuse(src, dst *grid.Grid, decay float32) {
	rows := (src.H + p.numWorkers - 1) / p.numWorkers
	sent := 0
	for y0 := 0; y0 < src.H; y0 += rows {
		y1 := min(y0+rows, src.H)
		p.workChan <- diffuseChunk{src: src, dst: dst, decay: decay, y0: y0, y1: y1}
		sent++
	}
	for i := 0; i < sent; i++ {
		<-p.doneChan
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	close(p.workChan)
	p.wg.Wait()
}
