package domain

import (
	"errors"
	"time"
)

// Tier identifies a membership plan level.
type Tier string

const (
	TierFree   Tier = "free"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// MembershipStatus represents the lifecycle state of a membership.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipExpired   MembershipStatus = "expired"
	MembershipCancelled MembershipStatus = "cancelled"
)

// FreeStarterCredits is the connection allowance granted with the free
// membership every user receives at registration.
const FreeStarterCredits = 2

var ErrNoMembership = errors.New("no membership")
var ErrMembershipExists = errors.New("active membership already exists")
var ErrMembershipInactive = errors.New("membership inactive")
var ErrInsufficientCredits = errors.New("insufficient credits")
var ErrUnknownTier = errors.New("unknown membership tier")

// Plan describes a purchasable membership tier.
type Plan struct {
	Tier         Tier
	Credits      int
	DurationDays int
}

// plans is the purchase catalog. The free tier is not purchasable; it is
// granted once at registration and never expires by date.
var plans = map[Tier]Plan{
	TierSilver: {Tier: TierSilver, Credits: 10, DurationDays: 30},
	TierGold:   {Tier: TierGold, Credits: 30, DurationDays: 90},
}

// PlanFor returns the purchase plan for a tier, if one exists.
func PlanFor(tier Tier) (Plan, bool) {
	p, ok := plans[tier]
	return p, ok
}

// Membership is a user's connection-credit budget. A user holds at most one
// active membership at a time; upgrades mutate it in place rather than
// creating a second row.
type Membership struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	UserID           string           `json:"user_id" bson:"user_id"`
	Tier             Tier             `json:"tier" bson:"tier"`
	Status           MembershipStatus `json:"status" bson:"status"`
	CreditsRemaining int              `json:"credits_remaining" bson:"credits_remaining"`
	CreditsTotal     int              `json:"credits_total" bson:"credits_total"`
	StartsAt         time.Time        `json:"starts_at" bson:"starts_at"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" bson:"updated_at"`
}

// ExpiredBy reports whether an active, date-limited membership has lapsed at
// the given instant. Free memberships carry no expiry and never lapse by date.
func (m *Membership) ExpiredBy(now time.Time) bool {
	if m.Status != MembershipActive || m.Tier == TierFree {
		return false
	}
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
