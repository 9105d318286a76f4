package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/memberbase/membership-api/internal/core/domain"
)

const resourcesCollection = "resources"

// ResourceRepository implements ports.ResourceRepository on MongoDB.
type ResourceRepository struct {
	coll *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *ResourceRepository {
	return &ResourceRepository{coll: db.Collection(resourcesCollection)}
}

type mongoResource struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Type        string             `bson:"type"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	UploaderID  string             `bson:"uploader_id"`
	FileRef     string             `bson:"file_ref,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
}

func (mr *mongoResource) toDomain() *domain.Resource {
	return &domain.Resource{
		ID:          mr.ID.Hex(),
		Type:        domain.ResourceType(mr.Type),
		Title:       mr.Title,
		Description: mr.Description,
		UploaderID:  mr.UploaderID,
		FileRef:     mr.FileRef,
		CreatedAt:   unixToTime(mr.CreatedAt),
	}
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	doc := mongoResource{
		Type:        string(res.Type),
		Title:       res.Title,
		Description: res.Description,
		UploaderID:  res.UploaderID,
		FileRef:     res.FileRef,
		CreatedAt:   res.CreatedAt.Unix(),
	}

	ins, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}

	created := *res
	created.ID = ins.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*domain.Resource, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrResourceNotFound
	}

	var mr mongoResource
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *ResourceRepository) List(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error) {
	filter := bson.M{}
	if typ != "" {
		filter["type"] = string(typ)
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Resource
	for cur.Next(ctx) {
		var mr mongoResource
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode resource: %w", err)
		}
		out = append(out, mr.toDomain())
	}
	return out, cur.Err()
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrResourceNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}
