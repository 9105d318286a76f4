package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/memberbase/membership-api/internal/core/domain"
)

// stubPostRepo is a map-backed ports.PostRepository shared by the counter
// manager and post service tests.
type stubPostRepo struct {
	posts   map[string]*domain.Post
	answers map[string]*domain.Answer
	votes   map[string]struct{}
	nextID  int

	// insertVoteErr is injected to simulate the duplicate-insert race.
	insertVoteErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{
		posts:   make(map[string]*domain.Post),
		answers: make(map[string]*domain.Answer),
		votes:   make(map[string]struct{}),
	}
}

func (r *stubPostRepo) id() string {
	r.nextID++
	return fmt.Sprintf("id%d", r.nextID)
}

func voteKey(postID, userID string) string { return postID + "/" + userID }

func (r *stubPostRepo) CreatePost(_ context.Context, p *domain.Post) (*domain.Post, error) {
	clone := *p
	clone.ID = r.id()
	r.posts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPostRepo) FindPostByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) ListPosts(_ context.Context) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubPostRepo) DeletePost(_ context.Context, id string) error {
	delete(r.posts, id)
	for aid, a := range r.answers {
		if a.PostID == id {
			delete(r.answers, aid)
		}
	}
	for k := range r.votes {
		if len(k) > len(id) && k[:len(id)+1] == id+"/" {
			delete(r.votes, k)
		}
	}
	return nil
}

func (r *stubPostRepo) CreateAnswer(_ context.Context, a *domain.Answer) (*domain.Answer, error) {
	clone := *a
	clone.ID = r.id()
	r.answers[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPostRepo) FindAnswerByID(_ context.Context, id string) (*domain.Answer, error) {
	a, ok := r.answers[id]
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubPostRepo) ListAnswers(_ context.Context, postID string) ([]*domain.Answer, error) {
	var out []*domain.Answer
	for _, a := range r.answers {
		if a.PostID == postID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPostRepo) DeleteAnswer(_ context.Context, id string) error {
	delete(r.answers, id)
	return nil
}

func (r *stubPostRepo) HasVote(_ context.Context, postID, userID string) (bool, error) {
	_, ok := r.votes[voteKey(postID, userID)]
	return ok, nil
}

func (r *stubPostRepo) InsertVote(_ context.Context, postID, userID string) error {
	if r.insertVoteErr != nil {
		err := r.insertVoteErr
		r.insertVoteErr = nil
		if errors.Is(err, domain.ErrDuplicateVote) {
			r.votes[voteKey(postID, userID)] = struct{}{}
		}
		return err
	}
	key := voteKey(postID, userID)
	if _, ok := r.votes[key]; ok {
		return domain.ErrDuplicateVote
	}
	r.votes[key] = struct{}{}
	return nil
}

func (r *stubPostRepo) DeleteVote(_ context.Context, postID, userID string) (bool, error) {
	key := voteKey(postID, userID)
	if _, ok := r.votes[key]; !ok {
		return false, nil
	}
	delete(r.votes, key)
	return true, nil
}

func (r *stubPostRepo) IncVoteCount(_ context.Context, postID string, delta int64) (bool, error) {
	p, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	if delta < 0 && p.VoteCount <= 0 {
		return false, nil
	}
	p.VoteCount += delta
	return true, nil
}

func (r *stubPostRepo) IncAnswerCount(_ context.Context, postID string, delta int64) (bool, error) {
	p, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	if delta < 0 && p.AnswerCount <= 0 {
		return false, nil
	}
	p.AnswerCount += delta
	return true, nil
}

func (r *stubPostRepo) CountVotes(_ context.Context, postID string) (int64, error) {
	var n int64
	for k := range r.votes {
		if k[:len(postID)+1] == postID+"/" {
			n++
		}
	}
	return n, nil
}

func (r *stubPostRepo) CountAnswers(_ context.Context, postID string) (int64, error) {
	var n int64
	for _, a := range r.answers {
		if a.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *stubPostRepo) SetCounts(_ context.Context, postID string, votes, answers int64) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.VoteCount = votes
	p.AnswerCount = answers
	return nil
}

type stubScheduler struct {
	scheduled []string
}

func (s *stubScheduler) Schedule(postID string) {
	s.scheduled = append(s.scheduled, postID)
}

func seedPost(r *stubPostRepo) string {
	p, _ := r.CreatePost(context.Background(), &domain.Post{AuthorID: "author", Title: "q"})
	return p.ID
}

func TestCounterManager_ToggleVote_OnOff(t *testing.T) {
	repo := newStubPostRepo()
	m := NewCounterManager(repo, &stubScheduler{}, zerolog.Nop())
	postID := seedPost(repo)

	voted, err := m.ToggleVote(context.Background(), postID, "u1")
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !voted {
		t.Fatalf("expected voted=true after first toggle")
	}
	if repo.posts[postID].VoteCount != 1 {
		t.Fatalf("expected vote_count=1, got %d", repo.posts[postID].VoteCount)
	}

	voted, err = m.ToggleVote(context.Background(), postID, "u1")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if voted {
		t.Fatalf("expected voted=false after second toggle")
	}
	if repo.posts[postID].VoteCount != 0 {
		t.Fatalf("expected vote_count back to 0, got %d", repo.posts[postID].VoteCount)
	}
	if len(repo.votes) != 0 {
		t.Fatalf("expected no vote rows, got %d", len(repo.votes))
	}
}

func TestCounterManager_ToggleVote_IndependentUsers(t *testing.T) {
	repo := newStubPostRepo()
	m := NewCounterManager(repo, &stubScheduler{}, zerolog.Nop())
	postID := seedPost(repo)

	for _, u := range []string{"u1", "u2", "u3"} {
		if _, err := m.ToggleVote(context.Background(), postID, u); err != nil {
			t.Fatalf("toggle for %s: %v", u, err)
		}
	}
	if repo.posts[postID].VoteCount != 3 {
		t.Fatalf("expected vote_count=3, got %d", repo.posts[postID].VoteCount)
	}

	if _, err := m.ToggleVote(context.Background(), postID, "u2"); err != nil {
		t.Fatalf("retract for u2: %v", err)
	}
	if repo.posts[postID].VoteCount != 2 {
		t.Fatalf("expected vote_count=2, got %d", repo.posts[postID].VoteCount)
	}
}

// A duplicate-key rejection on insert means a concurrent toggle from the
// same user won the race; the call must recover as a toggle-off.
func TestCounterManager_ToggleVote_DuplicateRaceRecovered(t *testing.T) {
	repo := newStubPostRepo()
	m := NewCounterManager(repo, &stubScheduler{}, zerolog.Nop())
	postID := seedPost(repo)
	repo.posts[postID].VoteCount = 1

	repo.insertVoteErr = domain.ErrDuplicateVote

	voted, err := m.ToggleVote(context.Background(), postID, "u1")
	if err != nil {
		t.Fatalf("expected race to be recovered, got %v", err)
	}
	if voted {
		t.Fatalf("expected voted=false after recovery as toggle-off")
	}
	if len(repo.votes) != 0 {
		t.Fatalf("expected vote row removed by recovery")
	}
	if repo.posts[postID].VoteCount != 0 {
		t.Fatalf("expected vote_count=0, got %d", repo.posts[postID].VoteCount)
	}
}

// Insert rejected as duplicate but no row exists to delete: the store
// contradicts itself and the toggle must surface ErrVoteConflict.
func TestCounterManager_ToggleVote_UnrecoverableConflict(t *testing.T) {
	repo := newStubPostRepo()
	postID := seedPost(repo)

	m := NewCounterManager(&conflictingRepo{stubPostRepo: repo}, &stubScheduler{}, zerolog.Nop())

	_, err := m.ToggleVote(context.Background(), postID, "u1")
	if !errors.Is(err, domain.ErrVoteConflict) {
		t.Fatalf("expected ErrVoteConflict, got %v", err)
	}
}

// conflictingRepo rejects every insert as a duplicate without creating the
// row, so the recovery delete always misses.
type conflictingRepo struct {
	*stubPostRepo
}

func (r *conflictingRepo) InsertVote(_ context.Context, _, _ string) error {
	return domain.ErrDuplicateVote
}

func TestCounterManager_AnswerCount_FlooredAtZero(t *testing.T) {
	repo := newStubPostRepo()
	sched := &stubScheduler{}
	m := NewCounterManager(repo, sched, zerolog.Nop())
	postID := seedPost(repo)

	for i := 0; i < 3; i++ {
		if err := m.RecordAnswer(context.Background(), postID); err != nil {
			t.Fatalf("record answer %d: %v", i, err)
		}
	}
	for i := 0; i < 4; i++ {
		if err := m.RemoveAnswer(context.Background(), postID); err != nil {
			t.Fatalf("remove answer %d: %v", i, err)
		}
	}

	if got := repo.posts[postID].AnswerCount; got != 0 {
		t.Fatalf("expected answer_count=0 after 3 up / 4 down, got %d", got)
	}
	if len(sched.scheduled) == 0 {
		t.Fatalf("expected a reconcile scheduled after the floored decrement")
	}
}

func TestCounterManager_FlooredVoteDecrement_SchedulesReconcile(t *testing.T) {
	repo := newStubPostRepo()
	sched := &stubScheduler{}
	m := NewCounterManager(repo, sched, zerolog.Nop())
	postID := seedPost(repo)

	// Vote row exists but the counter already reads zero: drift.
	repo.votes[voteKey(postID, "u1")] = struct{}{}

	voted, err := m.ToggleVote(context.Background(), postID, "u1")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if voted {
		t.Fatalf("expected toggle-off")
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0] != postID {
		t.Fatalf("expected reconcile scheduled for %s, got %v", postID, sched.scheduled)
	}
}
