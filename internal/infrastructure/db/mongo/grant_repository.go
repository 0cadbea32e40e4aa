package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

const collectionGrants = "view_grants"

// GrantRepository implements the view-grant ledger on MongoDB. The unique
// (viewer_id, biodata_id, kind) index is the serialization point for
// concurrent unlocks: exactly one InsertOne wins, every other one surfaces
// domain.ErrGrantExists.
type GrantRepository struct {
	col *mongo.Collection
}

func NewGrantRepository(db *mongo.Database) *GrantRepository {
	return &GrantRepository{col: db.Collection(collectionGrants)}
}

func grantFilter(viewerID, biodataID string, kind domain.GrantKind) bson.M {
	return bson.M{"viewer_id": viewerID, "biodata_id": biodataID, "kind": kind}
}

func (r *GrantRepository) Has(ctx context.Context, viewerID, biodataID string, kind domain.GrantKind) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, grantFilter(viewerID, biodataID, kind)).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find grant: %w", err)
	}
	return true, nil
}

func (r *GrantRepository) Insert(ctx context.Context, g *domain.ViewGrant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"viewer_id":  g.ViewerID,
		"biodata_id": g.BiodataID,
		"kind":       g.Kind,
		"granted_at": g.GrantedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrGrantExists
		}
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

// Delete exists solely for the coordinator's rollback of a grant whose charge
// failed; paid grants are permanent.
func (r *GrantRepository) Delete(ctx context.Context, viewerID, biodataID string, kind domain.GrantKind) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, grantFilter(viewerID, biodataID, kind)); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique pair index the unlock CAS depends on.
func (r *GrantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "viewer_id", Value: 1},
				{Key: "biodata_id", Value: 1},
				{Key: "kind", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
