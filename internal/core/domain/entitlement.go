package domain

// Outcome is the result class of an entitlement evaluation.
type Outcome string

const (
	// OutcomeAllow means the viewer may see the gated section now, free of charge.
	OutcomeAllow Outcome = "allow"
	// OutcomeAllowable means the viewer holds credits and may unlock the
	// section for one credit, but has not paid for this biodata yet.
	OutcomeAllowable Outcome = "allowable"
	OutcomeDeny      Outcome = "deny"
)

// Reason explains an entitlement outcome. Callers branch on it to drive
// "log in", "buy package" or "renew" flows.
type Reason string

const (
	ReasonNotLoggedIn        Reason = "not_logged_in"
	ReasonOwnBiodata         Reason = "own_biodata"
	ReasonAlreadyViewed      Reason = "already_viewed"
	ReasonNoMembership       Reason = "no_membership"
	ReasonMembershipInactive Reason = "membership_inactive"
	// ReasonNoCreditsRemaining is the paid-tier exhaustion message.
	ReasonNoCreditsRemaining Reason = "no_credits_remaining"
	// ReasonFreeTierExhausted is the free-tier exhaustion message; the two
	// are kept distinct so the UI can pitch an upgrade instead of a renewal.
	ReasonFreeTierExhausted Reason = "free_tier_exhausted"
	// ReasonFreeTierUpgradeRequired denies contact unlocks to free members
	// regardless of their remaining starter credits.
	ReasonFreeTierUpgradeRequired Reason = "free_tier_upgrade_required"
	ReasonCanUnlock               Reason = "can_unlock"
	// ReasonUnlocked marks a freshly charged successful unlock.
	ReasonUnlocked Reason = "unlocked"
)

// NeedsMembership reports whether the fix for a denial is buying or renewing
// a membership package, as opposed to logging in.
func (r Reason) NeedsMembership() bool {
	switch r {
	case ReasonNoMembership, ReasonMembershipInactive, ReasonNoCreditsRemaining,
		ReasonFreeTierExhausted, ReasonFreeTierUpgradeRequired:
		return true
	}
	return false
}

// Decision is the outcome of one entitlement evaluation. It carries no side
// effects; charging is the unlock coordinator's job.
type Decision struct {
	Outcome Outcome
	Reason  Reason
}

func allow(r Reason) Decision { return Decision{Outcome: OutcomeAllow, Reason: r} }
func deny(r Reason) Decision  { return Decision{Outcome: OutcomeDeny, Reason: r} }

// EvaluateAccess decides whether a viewer may see a biodata's gated section
// of the given kind. The rules apply in order; the first match wins:
//
//  1. anonymous viewers are denied
//  2. owners always see their own biodata, free
//  3. an existing grant allows a repeat view, free
//  4. no membership, an inactive membership, or an exhausted balance denies
//  5. otherwise the viewer may unlock for one credit (OutcomeAllowable)
//
// The membership passed in must already have lazy expiry applied (see the
// membership ledger); this function never mutates it.
func EvaluateAccess(viewerID string, b *Biodata, m *Membership, hasGrant bool, kind GrantKind) Decision {
	if viewerID == "" {
		return deny(ReasonNotLoggedIn)
	}
	if viewerID == b.OwnerID {
		return allow(ReasonOwnBiodata)
	}
	if hasGrant {
		return allow(ReasonAlreadyViewed)
	}
	if m == nil {
		return deny(ReasonNoMembership)
	}
	if m.Status != MembershipActive {
		return deny(ReasonMembershipInactive)
	}
	if kind == GrantContact && m.Tier == TierFree {
		return deny(ReasonFreeTierUpgradeRequired)
	}
	if m.CreditsRemaining <= 0 {
		if m.Tier == TierFree {
			return deny(ReasonFreeTierExhausted)
		}
		return deny(ReasonNoCreditsRemaining)
	}
	return Decision{Outcome: OutcomeAllowable, Reason: ReasonCanUnlock}
}
