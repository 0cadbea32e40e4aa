package ports

import (
	"context"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// BrowseFilter carries all query parameters for browsing biodatas.
type BrowseFilter struct {
	Kind          string // optional: "groom" or "bride"
	District      string // optional: exact match
	MaritalStatus string // optional: exact match
	BirthYearFrom int    // optional: birth_year >= BirthYearFrom
	BirthYearTo   int    // optional: birth_year <= BirthYearTo
	Page          int    // 1-based
	Limit         int    // max rows per page (capped at 50 by service)
}

// BiodataRepository defines persistence for biodata profiles.
type BiodataRepository interface {
	Create(ctx context.Context, b *domain.Biodata) (*domain.Biodata, error)
	FindByID(ctx context.Context, id string) (*domain.Biodata, error)
	FindByNumber(ctx context.Context, number string) (*domain.Biodata, error)
	FindByOwner(ctx context.Context, ownerID string) (*domain.Biodata, error)
	Update(ctx context.Context, b *domain.Biodata) error
	// List returns a page of biodatas matching filter and the total count.
	List(ctx context.Context, filter BrowseFilter) ([]*domain.Biodata, int64, error)
}
