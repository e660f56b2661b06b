// Package worker bounds how many extractions run at once.
//
// Go Pattern: a fixed set of goroutines reads jobs from a buffered channel.
// HTTP handlers submit a job and wait on a per-job reply channel, so a burst
// of OCR uploads queues up instead of starting dozens of tesseract processes.
// gin still serves every other request on its own goroutine meanwhile.
package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
)

var (
	// ErrQueueFull is returned when the job queue has no room.
	ErrQueueFull = errors.New("extraction queue is full; try again later")
	// ErrPoolStopped is returned for jobs submitted or pending at shutdown.
	ErrPoolStopped = errors.New("server is shutting down")
)

// Processor runs an extraction on an uploaded file and owns its cleanup.
// *extract.Dispatcher satisfies it.
type Processor interface {
	ExtractUpload(ctx context.Context, f extract.UploadedFile) (*extract.Result, error)
	Discard(f extract.UploadedFile)
}

// Job is one queued extraction.
type Job struct {
	ID        string
	Upload    extract.UploadedFile
	CreatedAt time.Time

	done chan outcome
}

type outcome struct {
	result *extract.Result
	err    error
}

// Pool manages a pool of extraction workers.
type Pool struct {
	jobs      chan *Job
	workers   int
	processor Processor

	// mu guards stopped so Do never sends on a closed channel.
	mu      sync.RWMutex
	stopped bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool.
func NewPool(workers, queueSize int, p Processor) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:      make(chan *Job, queueSize),
		workers:   workers,
		processor: p,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	log.Printf("🚀 Starting %d extraction workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels in-flight work, fails every queued job and waits for the
// workers to exit. Queued uploads are discarded.
func (p *Pool) Stop() {
	log.Println("⏹️  Stopping extraction workers...")
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.cancel()
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	log.Println("✅ All extraction workers stopped")
}

// Do queues an extraction and waits for its result.
//
// The extraction itself runs on the pool's context, not ctx: if the caller
// goes away the job still finishes and its scratch file is still removed.
// ctx only bounds how long the caller waits.
func (p *Pool) Do(ctx context.Context, upload extract.UploadedFile) (*extract.Result, error) {
	job := &Job{
		ID:        uuid.New().String(),
		Upload:    upload,
		CreatedAt: time.Now(),
		done:      make(chan outcome, 1),
	}

	if err := p.submit(job); err != nil {
		p.processor.Discard(upload)
		return nil, err
	}

	select {
	case out := <-job.done:
		return out.result, out.err
	case <-ctx.Done():
		log.Printf("⚠️  Caller stopped waiting for job %s: %v", job.ID, ctx.Err())
		return nil, ctx.Err()
	}
}

// submit adds a job to the queue without blocking.
func (p *Pool) submit(job *Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueSize returns the current number of jobs waiting in the queue.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		// After Stop the channel is drained without running extractions.
		if p.ctx.Err() != nil {
			p.processor.Discard(job.Upload)
			job.done <- outcome{err: ErrPoolStopped}
			continue
		}

		start := time.Now()
		result, err := p.processor.ExtractUpload(p.ctx, job.Upload)
		if err != nil {
			log.Printf("❌ Worker %d: job %s (%s) failed after %s: %v", id, job.ID, job.Upload.OriginalName, time.Since(start).Round(time.Millisecond), err)
		} else {
			log.Printf("✅ Worker %d: job %s (%s) completed in %s", id, job.ID, job.Upload.OriginalName, time.Since(start).Round(time.Millisecond))
		}
		job.done <- outcome{result: result, err: err}
	}
}
