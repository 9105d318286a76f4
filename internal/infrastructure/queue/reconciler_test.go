package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/ports"
)

// recountRepo implements only the reconciliation surface; the embedded nil
// interface panics if a worker ever touches anything else.
type recountRepo struct {
	ports.PostRepository
	votes   int64
	answers int64
	set     chan [2]int64
}

func (r *recountRepo) CountVotes(_ context.Context, _ string) (int64, error) {
	return r.votes, nil
}

func (r *recountRepo) CountAnswers(_ context.Context, _ string) (int64, error) {
	return r.answers, nil
}

func (r *recountRepo) SetCounts(_ context.Context, _ string, votes, answers int64) error {
	r.set <- [2]int64{votes, answers}
	return nil
}

func TestReconciler_RecountsAndWritesBack(t *testing.T) {
	repo := &recountRepo{votes: 7, answers: 3, set: make(chan [2]int64, 1)}
	r := NewReconciler(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	r.Schedule("p1")

	select {
	case got := <-repo.set:
		if got[0] != 7 || got[1] != 3 {
			t.Fatalf("wrote counts %v, want [7 3]", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reconcile never wrote counts back")
	}
}

func TestReconciler_SameShardForSamePost(t *testing.T) {
	repo := &recountRepo{set: make(chan [2]int64, 16)}
	r := NewReconciler(4, repo, zerolog.Nop())

	idx := r.shardIndex("p1")
	for i := 0; i < 10; i++ {
		if got := r.shardIndex("p1"); got != idx {
			t.Fatalf("shard index not stable: %d vs %d", got, idx)
		}
	}
}

func TestReconciler_DropsWhenQueueFull(t *testing.T) {
	repo := &recountRepo{set: make(chan [2]int64, 1)}
	r := NewReconciler(1, repo, zerolog.Nop())
	// Workers never started: the channel fills and Schedule must not block.

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			r.Schedule("p1")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Schedule blocked on a full queue")
	}
}
