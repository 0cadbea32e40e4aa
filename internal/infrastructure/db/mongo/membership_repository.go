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

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

const collectionMemberships = "memberships"

// MembershipRepository implements the membership ledger on MongoDB. Credit
// accounting relies on single-document conditional updates: Mongo applies
// each filter+update atomically, so no decrement can ever be split into a
// read-modify-write race.
type MembershipRepository struct {
	col *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{col: db.Collection(collectionMemberships)}
}

type membershipDoc struct {
	ID               primitive.ObjectID      `bson:"_id,omitempty"`
	UserID           string                  `bson:"user_id"`
	Tier             domain.Tier             `bson:"tier"`
	Status           domain.MembershipStatus `bson:"status"`
	CreditsRemaining int                     `bson:"credits_remaining"`
	CreditsTotal     int                     `bson:"credits_total"`
	StartsAt         time.Time               `bson:"starts_at"`
	ExpiresAt        *time.Time              `bson:"expires_at,omitempty"`
	CreatedAt        time.Time               `bson:"created_at"`
	UpdatedAt        time.Time               `bson:"updated_at"`
}

func (d *membershipDoc) toDomain() *domain.Membership {
	return &domain.Membership{
		ID:               d.ID.Hex(),
		UserID:           d.UserID,
		Tier:             d.Tier,
		Status:           d.Status,
		CreditsRemaining: d.CreditsRemaining,
		CreditsTotal:     d.CreditsTotal,
		StartsAt:         d.StartsAt,
		ExpiresAt:        d.ExpiresAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// FindCurrentByUser returns the user's most recent membership row in any status.
func (r *MembershipRepository) FindCurrentByUser(ctx context.Context, userID string) (*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var doc membershipDoc
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoMembership
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return doc.toDomain(), nil
}

// Insert creates a membership row. The partial unique index on active rows
// turns a concurrent second active insert into domain.ErrMembershipExists.
func (r *MembershipRepository) Insert(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := membershipDoc{
		UserID:           m.UserID,
		Tier:             m.Tier,
		Status:           m.Status,
		CreditsRemaining: m.CreditsRemaining,
		CreditsTotal:     m.CreditsTotal,
		StartsAt:         m.StartsAt,
		ExpiresAt:        m.ExpiresAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMembershipExists
		}
		return nil, fmt.Errorf("insert membership: %w", err)
	}

	out := *m
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

// Upgrade atomically tops up the user's active membership: both counters grow
// by addCredits, the tier changes, and the expiry is replaced, all in one
// conditional update.
func (r *MembershipRepository) Upgrade(ctx context.Context, userID string, tier domain.Tier, addCredits int, expiresAt *time.Time) (*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "status": domain.MembershipActive}
	update := bson.M{
		"$inc": bson.M{"credits_remaining": addCredits, "credits_total": addCredits},
		"$set": bson.M{"tier": tier, "expires_at": expiresAt, "updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc membershipDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoMembership
		}
		return nil, fmt.Errorf("upgrade membership: %w", err)
	}
	return doc.toDomain(), nil
}

// MarkExpired flips an active row to expired. Filtering on the current status
// makes the racing flips of concurrent lazy-expiry readers idempotent.
func (r *MembershipRepository) MarkExpired(ctx context.Context, membershipID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(membershipID)
	if err != nil {
		return fmt.Errorf("mark expired: %w", err)
	}

	filter := bson.M{"_id": oid, "status": domain.MembershipActive}
	update := bson.M{"$set": bson.M{"status": domain.MembershipExpired, "updated_at": time.Now().UTC()}}
	if _, err := r.col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("mark expired: %w", err)
	}
	return nil
}

// DecrementCredit is the decrement-if-positive the unlock coordinator relies
// on: the filter and $inc apply atomically, so two racing calls over a single
// remaining credit can never both match.
func (r *MembershipRepository) DecrementCredit(ctx context.Context, membershipID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(membershipID)
	if err != nil {
		return 0, fmt.Errorf("decrement credit: %w", err)
	}

	filter := bson.M{
		"_id":               oid,
		"status":            domain.MembershipActive,
		"credits_remaining": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"credits_remaining": -1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc membershipDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrInsufficientCredits
		}
		return 0, fmt.Errorf("decrement credit: %w", err)
	}
	return doc.CreditsRemaining, nil
}

// EnsureIndexes creates the ledger's indexes. The partial unique index backs
// the at-most-one-active-membership invariant.
func (r *MembershipRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.MembershipActive)}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
