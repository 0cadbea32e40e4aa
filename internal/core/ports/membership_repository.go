package ports

import (
	"context"
	"time"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// MembershipRepository defines persistence for the membership ledger. The
// mutating operations are the atomicity boundary for credit accounting: both
// Upgrade and DecrementCredit must be single conditional writes, never a
// read-modify-write pair split across round trips.
type MembershipRepository interface {
	// FindCurrentByUser returns the user's most recent membership row in any
	// status, or domain.ErrNoMembership when the user never had one. Expiry
	// is not applied here; the ledger service does that lazily.
	FindCurrentByUser(ctx context.Context, userID string) (*domain.Membership, error)

	// Insert creates a new membership row. The store enforces at most one
	// active row per user; a concurrent second insert fails with
	// domain.ErrMembershipExists (callers retry as an upgrade).
	Insert(ctx context.Context, m *domain.Membership) (*domain.Membership, error)

	// Upgrade atomically adds credits to both counters of the user's active
	// membership, sets the new tier, and replaces the expiry. Returns the
	// updated row, or domain.ErrNoMembership when no active row exists.
	Upgrade(ctx context.Context, userID string, tier domain.Tier, addCredits int, expiresAt *time.Time) (*domain.Membership, error)

	// MarkExpired flips an active membership to expired. Racing readers may
	// call it redundantly; the transition is idempotent.
	MarkExpired(ctx context.Context, membershipID string) error

	// DecrementCredit decrements credits_remaining by one if it is positive
	// and returns the new value, or domain.ErrInsufficientCredits when the
	// balance is already zero (or the row is no longer active).
	DecrementCredit(ctx context.Context, membershipID string) (int, error)
}
