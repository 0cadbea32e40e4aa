package ports

import (
	"context"
	"time"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// PurchaseResult is returned after a membership purchase or upgrade.
type PurchaseResult struct {
	Tier             domain.Tier
	CreditsRemaining int
	CreditsTotal     int
	ExpiresAt        *time.Time
}

// MembershipService is the single source of truth for a user's connection
// budget: current entitlement state, purchases, and credit consumption.
type MembershipService interface {
	// GetCurrent returns the user's latest membership with lazy expiry
	// applied and persisted, or (nil, nil) when the user never had one.
	// A just-expired membership is returned with status expired rather than
	// dropped, so callers can distinguish "lapsed" from "never had".
	GetCurrent(ctx context.Context, userID string) (*domain.Membership, error)

	// Purchase applies the tier's plan additively: unused credits carry
	// over, the tier changes, and the expiry is extended from now.
	Purchase(ctx context.Context, userID string, tier domain.Tier) (*PurchaseResult, error)

	// GrantStarter creates the free non-expiring membership a user receives
	// at registration.
	GrantStarter(ctx context.Context, userID string) error

	// SpendCredit atomically consumes one credit from the membership,
	// returning the new balance or domain.ErrInsufficientCredits.
	SpendCredit(ctx context.Context, membershipID string) (int, error)
}
