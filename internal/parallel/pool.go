// Package parallel provides the worker pool used by the grid passes of the
// renderer (lattice rasterization and colorization).
//
// Grid passes split the image into horizontal row bands. Each band is an
// independent task carrying its own state (for example its own random
// generator), so results do not depend on which worker runs which band.
//
// Orbit sampling does not use this pool: samplers are long-lived, one per
// worker, and are started and joined by the caller.
package parallel

import (
	"runtime"
	"sync"
)

// task is one band of a pass together with the pass it belongs to.
type task struct {
	band Band
	pass *pass
}

// pass is one ForEachBand call.
type pass struct {
	fn      func(Band)
	pending sync.WaitGroup
}

func (t task) run() {
	defer t.pass.pending.Done()
	t.pass.fn(t.band)
}

// WorkerPool is a fixed set of goroutines, each with its own task queue.
//
// Bands are dealt round-robin. A worker whose queue is empty takes tasks
// from the other queues, which keeps the pool busy when bands differ in cost
// (rows through the set interior iterate to the cap, rows near the window
// border escape at once).
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan task

	// mu orders submissions against Close: no task is queued after quit is
	// closed.
	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	exited  sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan task, workers),
		running: true,
		quit:    make(chan struct{}),
	}
	depth := max(4*workers, 8)
	for i := range p.queues {
		p.queues[i] = make(chan task, depth)
	}

	p.exited.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

// loop runs tasks from queue id, stealing when it is empty, until the pool
// is closed. Tasks still queued at close are run before returning.
func (p *WorkerPool) loop(id int) {
	defer p.exited.Done()

	mine := p.queues[id]
	for {
		if t, ok := p.poll(mine); ok {
			t.run()
			continue
		}
		if t, ok := p.steal(id); ok {
			t.run()
			continue
		}

		select {
		case t := <-mine:
			t.run()
		case <-p.quit:
			for {
				t, ok := p.poll(mine)
				if !ok {
					return
				}
				t.run()
			}
		}
	}
}

// poll takes a task from q without blocking.
func (p *WorkerPool) poll(q chan task) (task, bool) {
	select {
	case t := <-q:
		return t, true
	default:
		return task{}, false
	}
}

// steal takes one task from another worker's queue.
func (p *WorkerPool) steal(id int) (task, bool) {
	for off := 1; off < p.workers; off++ {
		if t, ok := p.poll(p.queues[(id+off)%p.workers]); ok {
			return t, true
		}
	}
	return task{}, false
}

// run executes fn for every band and waits for all of them. After Close the
// bands run on the calling goroutine.
func (p *WorkerPool) run(bands []Band, fn func(Band)) {
	if len(bands) == 0 {
		return
	}

	ps := &pass{fn: fn}
	ps.pending.Add(len(bands))

	p.mu.RLock()
	for i, b := range bands {
		t := task{band: b, pass: ps}
		if p.running {
			p.queues[i%p.workers] <- t
		} else {
			t.run()
		}
	}
	p.mu.RUnlock()

	ps.pending.Wait()
}

// Close stops the workers once queued tasks have run.
// Close is idempotent.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.quit)
	p.mu.Unlock()

	p.exited.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}
