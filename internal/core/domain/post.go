package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrAnswerNotFound = errors.New("answer not found")

// ErrDuplicateVote is returned by the vote store when the (post, user)
// uniqueness constraint rejects an insert. It is an expected race outcome,
// not a failure: the counter manager recovers it as a toggle-off.
var ErrDuplicateVote = errors.New("vote already recorded")

// ErrVoteConflict is surfaced when a vote toggle cannot be recovered after
// the duplicate-insert race, which indicates the store is misbehaving.
var ErrVoteConflict = errors.New("vote toggle conflict")

// Post is a Q&A question. VoteCount and AnswerCount are denormalized: each
// caches the row count of the votes / answers collections for this post and
// is maintained by the counter manager, never recomputed on read.
type Post struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	VoteCount   int64     `json:"vote_count"`
	AnswerCount int64     `json:"answer_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Answer is a reply to a Post.
type Answer struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote records that a user has upvoted a post. At most one vote exists per
// (PostID, UserID); the store enforces this with a unique index.
type Vote struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
