package ports

import (
	"context"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// GrantRepository defines persistence for the view-grant ledger. The unique
// (viewer, biodata, kind) index doubles as the compare-and-swap that
// serializes concurrent unlocks of the same pair.
type GrantRepository interface {
	Has(ctx context.Context, viewerID, biodataID string, kind domain.GrantKind) (bool, error)

	// Insert records a grant. Returns domain.ErrGrantExists when the pair is
	// already unlocked, letting a losing concurrent writer downgrade its
	// charge attempt to an idempotent no-op.
	Insert(ctx context.Context, g *domain.ViewGrant) error

	// Delete removes a grant. Granted pairs are permanent; this exists only
	// so the unlock coordinator can roll back a grant it just won when the
	// subsequent credit decrement fails.
	Delete(ctx context.Context, viewerID, biodataID string, kind domain.GrantKind) error
}
