package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/api/metrics"
	"github.com/memberbase/membership-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Reconciler repairs drifted post counters in the background. Post ids are
// routed to a fixed set of workers by consistent hashing, so recounts for
// the same post never run concurrently with each other.
type Reconciler struct {
	workers []chan string
	repo    ports.PostRepository
	log     zerolog.Logger
}

// NewReconciler creates a Reconciler with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewReconciler(numWorkers int, repo ports.PostRepository, log zerolog.Logger) *Reconciler {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Reconciler{
		workers: make([]chan string, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan string, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Schedule asks for postID's counters to be recounted. Non-blocking up to
// the channel buffer; beyond that the request is dropped, which is safe
// because a reconcile is only ever an optimization over the next one.
func (r *Reconciler) Schedule(postID string) {
	idx := r.shardIndex(postID)
	select {
	case r.workers[idx] <- postID:
		metrics.ReconcileQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(r.workers[idx])))
	default:
		r.log.Warn().Str("post_id", postID).Msg("reconcile queue full, dropping request")
	}
}

func (r *Reconciler) shardIndex(postID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Reconciler) runWorker(ctx context.Context, id int, ch <-chan string) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case postID, ok := <-ch:
			if !ok {
				return
			}
			metrics.ReconcileQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := r.reconcile(ctx, postID); err != nil {
				r.log.Error().Err(err).Str("post_id", postID).Int("worker_id", id).Msg("counter reconcile failed")
				metrics.CounterReconcilesTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.CounterReconcilesTotal.WithLabelValues("ok").Inc()
		}
	}
}

// reconcile recounts the fact collections and overwrites the cached
// counters, restoring the quiescent-state equality.
func (r *Reconciler) reconcile(ctx context.Context, postID string) error {
	votes, err := r.repo.CountVotes(ctx, postID)
	if err != nil {
		return err
	}
	answers, err := r.repo.CountAnswers(ctx, postID)
	if err != nil {
		return err
	}
	if err := r.repo.SetCounts(ctx, postID, votes, answers); err != nil {
		return err
	}
	r.log.Info().Str("post_id", postID).Int64("votes", votes).Int64("answers", answers).Msg("counters reconciled")
	return nil
}
