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
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

const collectionBiodatas = "biodatas"

type BiodataRepository struct {
	col *mongo.Collection
}

func NewBiodataRepository(db *mongo.Database) *BiodataRepository {
	return &BiodataRepository{col: db.Collection(collectionBiodatas)}
}

type biodataDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Number    string               `bson:"number"`
	OwnerID   string               `bson:"owner_id"`
	Public    domain.PublicProfile `bson:"public"`
	Gated     domain.GatedProfile  `bson:"gated"`
	Contact   domain.ContactInfo   `bson:"contact"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (d *biodataDoc) toDomain() *domain.Biodata {
	return &domain.Biodata{
		ID:        d.ID.Hex(),
		Number:    d.Number,
		OwnerID:   d.OwnerID,
		Public:    d.Public,
		Gated:     d.Gated,
		Contact:   d.Contact,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomainBiodata(b *domain.Biodata) biodataDoc {
	return biodataDoc{
		Number:    b.Number,
		OwnerID:   b.OwnerID,
		Public:    b.Public,
		Gated:     b.Gated,
		Contact:   b.Contact,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (r *BiodataRepository) Create(ctx context.Context, b *domain.Biodata) (*domain.Biodata, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, fromDomainBiodata(b))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBiodataExists
		}
		return nil, fmt.Errorf("insert biodata: %w", err)
	}

	out := *b
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *BiodataRepository) FindByID(ctx context.Context, id string) (*domain.Biodata, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBiodataNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *BiodataRepository) FindByNumber(ctx context.Context, number string) (*domain.Biodata, error) {
	return r.findOne(ctx, bson.M{"number": number})
}

func (r *BiodataRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Biodata, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

func (r *BiodataRepository) findOne(ctx context.Context, filter bson.M) (*domain.Biodata, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc biodataDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBiodataNotFound
		}
		return nil, fmt.Errorf("find biodata: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BiodataRepository) Update(ctx context.Context, b *domain.Biodata) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return domain.ErrBiodataNotFound
	}

	update := bson.M{"$set": bson.M{
		"public":     b.Public,
		"gated":      b.Gated,
		"contact":    b.Contact,
		"updated_at": b.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update biodata: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBiodataNotFound
	}
	return nil
}

// List returns a page of biodatas matching filter and the total count.
func (r *BiodataRepository) List(ctx context.Context, f ports.BrowseFilter) ([]*domain.Biodata, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Kind != "" {
		filter["public.kind"] = f.Kind
	}
	if f.District != "" {
		filter["public.district"] = f.District
	}
	if f.MaritalStatus != "" {
		filter["public.marital_status"] = f.MaritalStatus
	}
	if f.BirthYearFrom != 0 || f.BirthYearTo != 0 {
		year := bson.M{}
		if f.BirthYearFrom != 0 {
			year["$gte"] = f.BirthYearFrom
		}
		if f.BirthYearTo != 0 {
			year["$lte"] = f.BirthYearTo
		}
		filter["public.birth_year"] = year
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count biodatas: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list biodatas: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Biodata
	for cur.Next(ctx) {
		var doc biodataDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode biodata: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate biodatas: %w", err)
	}
	return out, total, nil
}

// EnsureIndexes creates the biodata collection's indexes. The unique
// owner_id index enforces one profile per user.
func (r *BiodataRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "public.kind", Value: 1}, {Key: "public.district", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
