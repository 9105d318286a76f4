package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/memberbase/membership-api/internal/core/domain"
)

const (
	postsCollection   = "posts"
	answersCollection = "answers"
	votesCollection   = "votes"
)

// PostRepository implements ports.PostRepository on MongoDB.
//
// The votes collection carries a unique compound index on (post_id, user_id);
// that index is the system's only concurrency-control primitive for voting.
// Counter adjustments are single UpdateOne calls with $inc so they are atomic
// per document.
type PostRepository struct {
	posts   *mongo.Collection
	answers *mongo.Collection
	votes   *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		posts:   db.Collection(postsCollection),
		answers: db.Collection(answersCollection),
		votes:   db.Collection(votesCollection),
	}
}

type mongoPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID    string             `bson:"author_id"`
	Title       string             `bson:"title"`
	Body        string             `bson:"body"`
	VoteCount   int64              `bson:"vote_count"`
	AnswerCount int64              `bson:"answer_count"`
	CreatedAt   int64              `bson:"created_at"`
}

func (mp *mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:          mp.ID.Hex(),
		AuthorID:    mp.AuthorID,
		Title:       mp.Title,
		Body:        mp.Body,
		VoteCount:   mp.VoteCount,
		AnswerCount: mp.AnswerCount,
		CreatedAt:   unixToTime(mp.CreatedAt),
	}
}

type mongoAnswer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    string             `bson:"post_id"`
	AuthorID  string             `bson:"author_id"`
	Body      string             `bson:"body"`
	CreatedAt int64              `bson:"created_at"`
}

func (ma *mongoAnswer) toDomain() *domain.Answer {
	return &domain.Answer{
		ID:        ma.ID.Hex(),
		PostID:    ma.PostID,
		AuthorID:  ma.AuthorID,
		Body:      ma.Body,
		CreatedAt: unixToTime(ma.CreatedAt),
	}
}

func (r *PostRepository) CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	doc := mongoPost{
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt.Unix(),
	}

	res, err := r.posts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindPostByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var mp mongoPost
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	cur, err := r.posts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Post
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, mp.toDomain())
	}
	return out, cur.Err()
}

// DeletePost removes the post document and its dependent facts. The deletes
// are separate statements; a crash in between leaves orphaned answers or
// votes for a post that no longer exists, which no read path can reach.
func (r *PostRepository) DeletePost(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}

	if _, err := r.answers.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete post answers: %w", err)
	}
	if _, err := r.votes.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete post votes: %w", err)
	}
	return nil
}

func (r *PostRepository) CreateAnswer(ctx context.Context, a *domain.Answer) (*domain.Answer, error) {
	doc := mongoAnswer{
		PostID:    a.PostID,
		AuthorID:  a.AuthorID,
		Body:      a.Body,
		CreatedAt: a.CreatedAt.Unix(),
	}

	res, err := r.answers.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert answer: %w", err)
	}

	created := *a
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindAnswerByID(ctx context.Context, id string) (*domain.Answer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAnswerNotFound
	}

	var ma mongoAnswer
	if err := r.answers.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("find answer: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *PostRepository) ListAnswers(ctx context.Context, postID string) ([]*domain.Answer, error) {
	cur, err := r.answers.Find(ctx, bson.M{"post_id": postID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Answer
	for cur.Next(ctx) {
		var ma mongoAnswer
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode answer: %w", err)
		}
		out = append(out, ma.toDomain())
	}
	return out, cur.Err()
}

func (r *PostRepository) DeleteAnswer(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAnswerNotFound
	}

	res, err := r.answers.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}

func (r *PostRepository) HasVote(ctx context.Context, postID, userID string) (bool, error) {
	err := r.votes.FindOne(ctx, bson.M{"post_id": postID, "user_id": userID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find vote: %w", err)
	}
	return true, nil
}

func (r *PostRepository) InsertVote(ctx context.Context, postID, userID string) error {
	_, err := r.votes.InsertOne(ctx, bson.M{
		"post_id":    postID,
		"user_id":    userID,
		"created_at": time.Now().UTC().Unix(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *PostRepository) DeleteVote(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.votes.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("delete vote: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *PostRepository) IncVoteCount(ctx context.Context, postID string, delta int64) (bool, error) {
	return r.incCounter(ctx, postID, "vote_count", delta)
}

func (r *PostRepository) IncAnswerCount(ctx context.Context, postID string, delta int64) (bool, error) {
	return r.incCounter(ctx, postID, "answer_count", delta)
}

// incCounter applies a $inc to one cached counter. Decrements add a
// "counter > 0" clause to the filter, which is how the floor is enforced
// without a read-modify-write: a decrement against a zero counter simply
// matches nothing.
func (r *PostRepository) incCounter(ctx context.Context, postID, field string, delta int64) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, domain.ErrPostNotFound
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter[field] = bson.M{"$gt": 0}
	}

	res, err := r.posts.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return false, fmt.Errorf("adjust %s: %w", field, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *PostRepository) CountVotes(ctx context.Context, postID string) (int64, error) {
	n, err := r.votes.CountDocuments(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

func (r *PostRepository) CountAnswers(ctx context.Context, postID string) (int64, error) {
	n, err := r.answers.CountDocuments(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return n, nil
}

func (r *PostRepository) SetCounts(ctx context.Context, postID string, votes, answers int64) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	_, err = r.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"vote_count": votes, "answer_count": answers},
	})
	if err != nil {
		return fmt.Errorf("set counts: %w", err)
	}
	return nil
}

// EnsureIndexes creates the vote uniqueness index the toggle protocol
// depends on, plus lookup indexes for answers and votes by post.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.answers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}},
	})
	return err
}
