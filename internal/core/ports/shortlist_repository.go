package ports

import (
	"context"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// ShortlistRepository defines persistence for profile bookmarks.
type ShortlistRepository interface {
	// Insert adds a bookmark; domain.ErrAlreadyShortlisted on a duplicate pair.
	Insert(ctx context.Context, e *domain.ShortlistEntry) error
	// Delete removes a bookmark; domain.ErrNotShortlisted when absent.
	Delete(ctx context.Context, userID, biodataID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.ShortlistEntry, error)
}

// ShortlistService defines the bookmark use cases. Entries are keyed by the
// human-readable biodata number at the API surface.
type ShortlistService interface {
	Add(ctx context.Context, userID, number string) error
	Remove(ctx context.Context, userID, number string) error
	List(ctx context.Context, userID string) ([]BiodataSummary, error)
}
