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
	newsCollection   = "news"
	eventsCollection = "events"
)

// NewsRepository implements ports.NewsRepository on MongoDB.
type NewsRepository struct {
	coll *mongo.Collection
}

func NewNewsRepository(db *mongo.Database) *NewsRepository {
	return &NewsRepository{coll: db.Collection(newsCollection)}
}

type mongoNews struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	AuthorID  string             `bson:"author_id"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mn *mongoNews) toDomain() *domain.NewsItem {
	return &domain.NewsItem{
		ID:        mn.ID.Hex(),
		Title:     mn.Title,
		Body:      mn.Body,
		AuthorID:  mn.AuthorID,
		CreatedAt: unixToTime(mn.CreatedAt),
		UpdatedAt: unixToTime(mn.UpdatedAt),
	}
}

func (r *NewsRepository) Create(ctx context.Context, n *domain.NewsItem) (*domain.NewsItem, error) {
	doc := mongoNews{
		Title:     n.Title,
		Body:      n.Body,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt.Unix(),
		UpdatedAt: n.UpdatedAt.Unix(),
	}

	ins, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert news: %w", err)
	}

	created := *n
	created.ID = ins.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *NewsRepository) FindByID(ctx context.Context, id string) (*domain.NewsItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNewsNotFound
	}

	var mn mongoNews
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	return mn.toDomain(), nil
}

func (r *NewsRepository) List(ctx context.Context) ([]*domain.NewsItem, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.NewsItem
	for cur.Next(ctx) {
		var mn mongoNews
		if err := cur.Decode(&mn); err != nil {
			return nil, fmt.Errorf("decode news: %w", err)
		}
		out = append(out, mn.toDomain())
	}
	return out, cur.Err()
}

func (r *NewsRepository) Update(ctx context.Context, n *domain.NewsItem) error {
	oid, err := primitive.ObjectIDFromHex(n.ID)
	if err != nil {
		return domain.ErrNewsNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"title": n.Title, "body": n.Body, "updated_at": n.UpdatedAt.Unix()},
	})
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNewsNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}

// EventRepository implements ports.EventRepository on MongoDB.
type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(eventsCollection)}
}

type mongoEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Location    string             `bson:"location,omitempty"`
	StartsAt    time.Time          `bson:"starts_at"`
	EndsAt      time.Time          `bson:"ends_at"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (me *mongoEvent) toDomain() *domain.Event {
	return &domain.Event{
		ID:          me.ID.Hex(),
		Title:       me.Title,
		Description: me.Description,
		Location:    me.Location,
		StartsAt:    me.StartsAt.UTC(),
		EndsAt:      me.EndsAt.UTC(),
		CreatedAt:   unixToTime(me.CreatedAt),
		UpdatedAt:   unixToTime(me.UpdatedAt),
	}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	doc := mongoEvent{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt.UTC(),
		EndsAt:      e.EndsAt.UTC(),
		CreatedAt:   e.CreatedAt.Unix(),
		UpdatedAt:   e.UpdatedAt.Unix(),
	}

	ins, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *e
	created.ID = ins.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	var me mongoEvent
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return me.toDomain(), nil
}

func (r *EventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Event
	for cur.Next(ctx) {
		var me mongoEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, me.toDomain())
	}
	return out, cur.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return domain.ErrEventNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"title":       e.Title,
			"description": e.Description,
			"location":    e.Location,
			"starts_at":   e.StartsAt.UTC(),
			"ends_at":     e.EndsAt.UTC(),
			"updated_at":  e.UpdatedAt.Unix(),
		},
	})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
