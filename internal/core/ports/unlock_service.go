package ports

import (
	"context"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// ViewDecision is the answer to a "may I view" probe. It carries no side
// effects; probing never charges.
type ViewDecision struct {
	CanView   bool          // gated section is visible right now, free
	CanUnlock bool          // viewer may pay one credit to unlock
	Unlocked  bool          // a grant (or ownership) already covers the pair
	Reason    domain.Reason
	// Remaining is the viewer's credit balance, present only when a
	// membership was consulted.
	Remaining *int
}

// UnlockResult is returned by a successful or denied unlock attempt.
// Business denials come back with Granted=false and a Reason rather than an
// error; only authentication, missing biodatas, and infrastructure failures
// surface as errors.
type UnlockResult struct {
	Granted bool
	Charged bool
	Reason  domain.Reason
	// Remaining is the post-charge balance, present only when Charged.
	Remaining *int
	// Gated is set on granted biodata-view unlocks.
	Gated *domain.GatedProfile
	// Contact is set on granted contact-view unlocks.
	Contact *domain.ContactInfo
}

// UnlockService coordinates the entitlement check, grant record, and credit
// decrement of a paid unlock as a single unit.
type UnlockService interface {
	// CanView evaluates the decision table for the pair without charging.
	CanView(ctx context.Context, viewerID, number string, kind domain.GrantKind) (*ViewDecision, error)

	// Unlock grants the viewer access to the gated section of the biodata,
	// charging one credit the first time and nothing on repeats. Concurrent
	// duplicate calls result in exactly one charge.
	Unlock(ctx context.Context, viewerID, number string, kind domain.GrantKind) (*UnlockResult, error)
}
