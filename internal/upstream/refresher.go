package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

// RefreshJob asks the refresher to re-fetch one target. When Purge is
// set the target's stored neighborhood is deleted first, so records the
// upstream no longer vouches for do not linger.
type RefreshJob struct {
	Target Target
	Purge  bool
}

// Refresher re-fetches stale targets off the request path. Read
// handlers enqueue and move on; a small worker pool drains the queue in
// the background.
type Refresher struct {
	log        *logger.Logger
	orch       *Orchestrator
	store      *graphdb.Client
	jobs       chan RefreshJob
	workers    int
	purgeDelay time.Duration
	depth      int

	// mu guards closed so a late Enqueue never sends on a closed queue.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewRefresher builds the pool. purgeDelay is the settle window between
// a purge job arriving and the delete running; zero keeps the default.
func NewRefresher(log *logger.Logger, orch *Orchestrator, store *graphdb.Client, workers, queueSize int, purgeDelay time.Duration) *Refresher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 256
	}
	if purgeDelay <= 0 {
		purgeDelay = 10 * time.Second
	}
	return &Refresher{
		log:        log.With("component", "refresher"),
		orch:       orch,
		store:      store,
		jobs:       make(chan RefreshJob, queueSize),
		workers:    workers,
		purgeDelay: purgeDelay,
		depth:      1,
	}
}

// Start launches the worker pool. Workers stop when ctx is cancelled or
// the queue is closed by Stop.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.log.Info("starting refresh workers", "workers", r.workers)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.runLoop(ctx, i+1)
	}
}

// Stop closes the queue and waits for in-flight jobs to finish. Jobs
// enqueued afterwards are dropped; calling Stop again is a no-op.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()
	r.wg.Wait()
	if r.cancel != nil {
		r.cancel()
	}
}

// Enqueue hands a job to the pool without blocking. When the queue is
// full the job is dropped; the next stale read will enqueue it again.
func (r *Refresher) Enqueue(job RefreshJob) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.log.Debug("refresher stopped, dropping job", "target", job.Target.String())
		return false
	}
	select {
	case r.jobs <- job:
		return true
	default:
		r.log.Warn("refresh queue full, dropping job", "target", job.Target.String())
		return false
	}
}

func (r *Refresher) runLoop(ctx context.Context, workerID int) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("refresh worker stopped", "worker_id", workerID)
			return
		case job, ok := <-r.jobs:
			if !ok {
				return
			}
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						r.log.Error("refresh job panic",
							"worker_id", workerID,
							"target", job.Target.String(),
							"panic", rec,
						)
					}
				}()
				if err := r.run(ctx, job); err != nil {
					r.log.Warn("refresh job failed",
						"worker_id", workerID,
						"target", job.Target.String(),
						"error", err,
					)
				}
			}()
		}
	}
}

func (r *Refresher) run(ctx context.Context, job RefreshJob) error {
	if job.Purge && job.Target.Kind == KindIdentity {
		// let the response that triggered this refresh reach its caller
		// before the old records disappear
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.purgeDelay):
		}
		vid := (&model.Identity{Platform: job.Target.Platform, Identity: job.Target.Identity}).PrimaryKey()
		if err := r.store.DeleteGraphInnerConnection(ctx, vid); err != nil {
			return err
		}
	}
	return r.orch.FetchAll(ctx, []Target{job.Target}, r.depth)
}
