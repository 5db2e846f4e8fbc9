package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docsight/docsight/internal/config"
	"github.com/docsight/docsight/internal/stats"
)

// Orchestrator manages the collection analysis pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	opts  Options
	log   *slog.Logger
	cfg   config.Config
	stats *stats.Registry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, registry *stats.Registry, log *slog.Logger) *Orchestrator {
	opts := OptionsFromConfig(cfg)
	opts.Stats = registry
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		opts:  opts,
		log:   log,
		cfg:   cfg,
		stats: registry,
	}
}

// NewJob creates a queued job for a collection.
func (o *Orchestrator) NewJob(files []InputFile, personaText, jobText string) *Job {
	now := time.Now()
	job := &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		PersonaText: personaText,
		JobText:     jobText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.SetFiles(files)
	job.SetCounts(len(files), -1, -1)
	return job
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.opts, o.log)
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
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
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

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
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

// Options returns the analysis options derived from service config.
func (o *Orchestrator) Options() Options {
	return o.opts
}

// StageStats snapshots per-stage latency aggregates.
func (o *Orchestrator) StageStats() map[string]stats.Snapshot {
	return o.stats.Snapshot()
}
