package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/teigest/internal/stats"
)

// ErrQueueFull is returned by Submit when the queue has no room.
var ErrQueueFull = errors.New("job queue is full")

// ErrClosed is returned when submitting to a closed orchestrator.
var ErrClosed = errors.New("orchestrator is closed")

// Options size the worker pool.
type Options struct {
	Workers   int
	QueueSize int
	JobTTL    time.Duration
	Worker    WorkerOptions
}

// Orchestrator runs curation jobs on a bounded queue and a fixed pool of
// workers. Documents are independent: one document's failure never blocks
// another.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	output OutputResolver
	stats  *stats.Collector
	log    *slog.Logger
	opts   Options

	mu     sync.RWMutex
	closed bool

	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
	cleanup sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(opts Options, output OutputResolver, st *stats.Collector, log *slog.Logger) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.JobTTL <= 0 {
		opts.JobTTL = time.Hour
	}
	if st == nil {
		st = stats.NewCollector(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		jobs:   NewJobStore(opts.JobTTL),
		queue:  make(chan *Job, opts.QueueSize),
		output: output,
		stats:  st,
		log:    log,
		opts:   opts,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.ctx, o.cancel = workerCtx, cancel

	for range o.opts.Workers {
		o.workers.Add(1)
		go func() {
			defer o.workers.Done()
			w := NewWorker(o.output, o.stats, o.log, o.opts.Worker)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.cleanup.Add(1)
	go func() {
		defer o.cleanup.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (o *Orchestrator) Close() {
	o.closeQueue()
	o.workers.Wait()
	if o.cancel != nil {
		o.cancel()
	}
	o.cleanup.Wait()
}

// Stop cancels in-flight work and shuts down without draining the queue.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.closeQueue()
	o.workers.Wait()
	o.cleanup.Wait()
}

func (o *Orchestrator) closeQueue() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
}

// Submit queues a job without blocking.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrClosed
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.opts.QueueSize)
	}
}

// SubmitWait queues a job, waiting for room in the queue.
func (o *Orchestrator) SubmitWait(ctx context.Context, job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrClosed
	}

	var stopped <-chan struct{}
	if o.ctx != nil {
		stopped = o.ctx.Done()
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	case <-ctx.Done():
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "queued")
		return ctx.Err()
	case <-stopped:
		job.AddError("pipeline stopped")
		job.SetStatus(StatusFailed, "queued")
		return ErrClosed
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the collector workers report to.
func (o *Orchestrator) Stats() *stats.Collector {
	return o.stats
}
