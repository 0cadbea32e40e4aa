package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// UnlockCoordinator is the only mutating entry point for consuming a
// connection credit. It serializes the check-record-decrement sequence per
// (viewer, biodata, kind) pair through the grant ledger's uniqueness
// guarantee: the grant insert is the compare-and-swap, and the credit
// decrement is a store-side conditional write.
type UnlockCoordinator struct {
	biodatas    ports.BiodataRepository
	grants      ports.GrantRepository
	memberships ports.MembershipService
	log         zerolog.Logger
}

func NewUnlockCoordinator(
	biodatas ports.BiodataRepository,
	grants ports.GrantRepository,
	memberships ports.MembershipService,
	log zerolog.Logger,
) *UnlockCoordinator {
	return &UnlockCoordinator{biodatas: biodatas, grants: grants, memberships: memberships, log: log}
}

// CanView answers a "may I view" probe for the pair without side effects
// beyond the ledger's idempotent lazy-expiry write.
func (s *UnlockCoordinator) CanView(ctx context.Context, viewerID, number string, kind domain.GrantKind) (*ports.ViewDecision, error) {
	b, err := s.biodatas.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	var hasGrant bool
	var m *domain.Membership
	if viewerID != "" && viewerID != b.OwnerID {
		hasGrant, err = s.grants.Has(ctx, viewerID, b.ID, kind)
		if err != nil {
			return nil, fmt.Errorf("check grant: %w", err)
		}
		m, err = s.memberships.GetCurrent(ctx, viewerID)
		if err != nil {
			return nil, err
		}
	}

	dec := domain.EvaluateAccess(viewerID, b, m, hasGrant, kind)

	vd := &ports.ViewDecision{
		CanView:   dec.Outcome == domain.OutcomeAllow,
		CanUnlock: dec.Outcome == domain.OutcomeAllowable,
		Unlocked:  hasGrant || viewerID == b.OwnerID,
		Reason:    dec.Reason,
	}
	if m != nil {
		remaining := m.CreditsRemaining
		vd.Remaining = &remaining
	}
	return vd, nil
}

// Unlock implements the unlock contract. Per (viewer, biodata, kind) pair the
// unlocked state is terminal: the first successful call charges one credit
// and every later call, sequential or concurrent, succeeds free of charge.
func (s *UnlockCoordinator) Unlock(ctx context.Context, viewerID, number string, kind domain.GrantKind) (*ports.UnlockResult, error) {
	if viewerID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	b, err := s.biodatas.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if viewerID == b.OwnerID {
		return grantedResult(b, kind, domain.ReasonOwnBiodata, nil), nil
	}

	hasGrant, err := s.grants.Has(ctx, viewerID, b.ID, kind)
	if err != nil {
		return nil, fmt.Errorf("check grant: %w", err)
	}
	if hasGrant {
		return grantedResult(b, kind, domain.ReasonAlreadyViewed, nil), nil
	}

	// Re-validate against a freshly read membership; lazy expiry applies here.
	m, err := s.memberships.GetCurrent(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	dec := domain.EvaluateAccess(viewerID, b, m, false, kind)
	if dec.Outcome == domain.OutcomeDeny {
		// An exhausted balance can be the footprint of a concurrent duplicate
		// that already paid for this exact pair between our two reads.
		// Re-check the grant before denying so the duplicate stays idempotent.
		if dec.Reason == domain.ReasonNoCreditsRemaining || dec.Reason == domain.ReasonFreeTierExhausted {
			if again, err := s.grants.Has(ctx, viewerID, b.ID, kind); err == nil && again {
				return grantedResult(b, kind, domain.ReasonAlreadyViewed, nil), nil
			}
		}
		return &ports.UnlockResult{Granted: false, Reason: dec.Reason}, nil
	}

	// Claim the grant first. The unique (viewer, biodata, kind) index is the
	// CAS that decides races: the second concurrent writer sees the grant the
	// first one created and downgrades to an idempotent free success.
	grant := &domain.ViewGrant{
		ViewerID:  viewerID,
		BiodataID: b.ID,
		Kind:      kind,
		GrantedAt: time.Now().UTC(),
	}
	if err := s.grants.Insert(ctx, grant); err != nil {
		if errors.Is(err, domain.ErrGrantExists) {
			return grantedResult(b, kind, domain.ReasonAlreadyViewed, nil), nil
		}
		return nil, fmt.Errorf("record grant: %w", err)
	}

	remaining, err := s.memberships.SpendCredit(ctx, m.ID)
	if err != nil {
		// Charge failed: release the claim so the pair stays locked.
		if delErr := s.grants.Delete(ctx, viewerID, b.ID, kind); delErr != nil {
			s.log.Error().Err(delErr).
				Str("viewer_id", viewerID).
				Str("biodata", b.Number).
				Str("kind", string(kind)).
				Msg("failed to roll back unpaid grant")
		}
		if errors.Is(err, domain.ErrInsufficientCredits) {
			reason := domain.ReasonNoCreditsRemaining
			if m.Tier == domain.TierFree {
				reason = domain.ReasonFreeTierExhausted
			}
			return &ports.UnlockResult{Granted: false, Reason: reason}, nil
		}
		return nil, fmt.Errorf("spend credit: %w", err)
	}

	s.log.Info().
		Str("viewer_id", viewerID).
		Str("biodata", b.Number).
		Str("kind", string(kind)).
		Int("credits_remaining", remaining).
		Msg("unlock charged")

	res := grantedResult(b, kind, domain.ReasonUnlocked, &remaining)
	res.Charged = true
	return res, nil
}

// grantedResult builds a successful unlock result carrying the gated section
// the grant kind releases.
func grantedResult(b *domain.Biodata, kind domain.GrantKind, reason domain.Reason, remaining *int) *ports.UnlockResult {
	res := &ports.UnlockResult{Granted: true, Reason: reason, Remaining: remaining}
	switch kind {
	case domain.GrantBiodata:
		gated := b.Gated
		res.Gated = &gated
	case domain.GrantContact:
		contact := b.Contact
		res.Contact = &contact
	}
	return res
}
