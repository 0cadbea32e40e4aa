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

// MembershipLedger is the single source of truth for a user's connection
// budget. It owns the active/expired transition and the add-don't-reset
// upgrade policy.
type MembershipLedger struct {
	repo ports.MembershipRepository
	log  zerolog.Logger
}

func NewMembershipLedger(repo ports.MembershipRepository, log zerolog.Logger) *MembershipLedger {
	return &MembershipLedger{repo: repo, log: log}
}

// GetCurrent returns the user's latest membership with lazy expiry applied.
// A date-limited membership observed past its expiry is flipped to expired
// and persisted before being returned; concurrent readers may race on the
// flip, which is idempotent. Returns (nil, nil) when the user never had a
// membership.
func (s *MembershipLedger) GetCurrent(ctx context.Context, userID string) (*domain.Membership, error) {
	m, err := s.repo.FindCurrentByUser(ctx, userID)
	if errors.Is(err, domain.ErrNoMembership) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	if m.ExpiredBy(time.Now().UTC()) {
		if err := s.repo.MarkExpired(ctx, m.ID); err != nil {
			return nil, fmt.Errorf("lazy expire membership: %w", err)
		}
		m.Status = domain.MembershipExpired
		s.log.Info().
			Str("user_id", userID).
			Str("membership_id", m.ID).
			Str("tier", string(m.Tier)).
			Msg("membership lazily expired")
	}

	return m, nil
}

// GrantStarter seeds a fresh account with the free non-expiring membership.
// Safe to call more than once; an existing active membership wins.
func (s *MembershipLedger) GrantStarter(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := s.repo.Insert(ctx, &domain.Membership{
		UserID:           userID,
		Tier:             domain.TierFree,
		Status:           domain.MembershipActive,
		CreditsRemaining: domain.FreeStarterCredits,
		CreditsTotal:     domain.FreeStarterCredits,
		StartsAt:         now,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, domain.ErrMembershipExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("grant starter membership: %w", err)
	}

	s.log.Info().Str("user_id", userID).Int("credits", domain.FreeStarterCredits).Msg("starter membership granted")
	return nil
}

// Purchase applies a tier's plan to the user's budget. Upgrades are additive:
// unused credits carry over into the new tier and the expiry restarts from
// now. A lapsed or absent membership gets a fresh active row instead.
func (s *MembershipLedger) Purchase(ctx context.Context, userID string, tier domain.Tier) (*ports.PurchaseResult, error) {
	plan, ok := domain.PlanFor(tier)
	if !ok {
		return nil, domain.ErrUnknownTier
	}

	// Apply lazy expiry first so a lapsed membership is replaced, not topped up.
	current, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expires := now.AddDate(0, 0, plan.DurationDays)

	if current != nil && current.Status == domain.MembershipActive {
		updated, err := s.repo.Upgrade(ctx, userID, tier, plan.Credits, &expires)
		if err == nil {
			s.log.Info().
				Str("user_id", userID).
				Str("tier", string(tier)).
				Int("credits_remaining", updated.CreditsRemaining).
				Msg("membership upgraded")
			return purchaseResult(updated), nil
		}
		// The active row vanished between the read and the update (expiry
		// race); fall through and create a fresh one.
		if !errors.Is(err, domain.ErrNoMembership) {
			return nil, fmt.Errorf("upgrade membership: %w", err)
		}
	}

	created, err := s.repo.Insert(ctx, &domain.Membership{
		UserID:           userID,
		Tier:             tier,
		Status:           domain.MembershipActive,
		CreditsRemaining: plan.Credits,
		CreditsTotal:     plan.Credits,
		StartsAt:         now,
		ExpiresAt:        &expires,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, domain.ErrMembershipExists) {
		// Lost an insert race against a concurrent purchase; top that one up.
		updated, err := s.repo.Upgrade(ctx, userID, tier, plan.Credits, &expires)
		if err != nil {
			return nil, fmt.Errorf("upgrade membership after insert race: %w", err)
		}
		return purchaseResult(updated), nil
	}
	if err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("tier", string(tier)).
		Int("credits", plan.Credits).
		Msg("membership purchased")
	return purchaseResult(created), nil
}

// SpendCredit atomically consumes one credit. The conditional decrement is
// pushed down to the store so two unlocks racing over a single remaining
// credit can never both win.
func (s *MembershipLedger) SpendCredit(ctx context.Context, membershipID string) (int, error) {
	return s.repo.DecrementCredit(ctx, membershipID)
}

func purchaseResult(m *domain.Membership) *ports.PurchaseResult {
	return &ports.PurchaseResult{
		Tier:             m.Tier,
		CreditsRemaining: m.CreditsRemaining,
		CreditsTotal:     m.CreditsTotal,
		ExpiresAt:        m.ExpiresAt,
	}
}
