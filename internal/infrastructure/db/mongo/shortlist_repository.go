package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

const collectionShortlists = "shortlists"

type ShortlistRepository struct {
	col *mongo.Collection
}

func NewShortlistRepository(db *mongo.Database) *ShortlistRepository {
	return &ShortlistRepository{col: db.Collection(collectionShortlists)}
}

func (r *ShortlistRepository) Insert(ctx context.Context, e *domain.ShortlistEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":    e.UserID,
		"biodata_id": e.BiodataID,
		"added_at":   e.AddedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyShortlisted
		}
		return fmt.Errorf("insert shortlist entry: %w", err)
	}
	return nil
}

func (r *ShortlistRepository) Delete(ctx context.Context, userID, biodataID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "biodata_id": biodataID})
	if err != nil {
		return fmt.Errorf("delete shortlist entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotShortlisted
	}
	return nil
}

func (r *ShortlistRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ShortlistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list shortlist: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.ShortlistEntry
	for cur.Next(ctx) {
		var doc struct {
			ID        primitive.ObjectID `bson:"_id"`
			UserID    string             `bson:"user_id"`
			BiodataID string             `bson:"biodata_id"`
			AddedAt   time.Time          `bson:"added_at"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode shortlist entry: %w", err)
		}
		out = append(out, &domain.ShortlistEntry{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID,
			BiodataID: doc.BiodataID,
			AddedAt:   doc.AddedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate shortlist: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the unique (user, biodata) pair index.
func (r *ShortlistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "biodata_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
