package domain

import (
	"testing"
	"time"
)

func activeMembership(tier Tier, remaining int) *Membership {
	return &Membership{
		ID:               "m1",
		UserID:           "viewer",
		Tier:             tier,
		Status:           MembershipActive,
		CreditsRemaining: remaining,
		CreditsTotal:     remaining,
	}
}

func TestEvaluateAccess_DecisionTable(t *testing.T) {
	b := &Biodata{ID: "b1", Number: "BD-00000001", OwnerID: "owner"}

	expired := activeMembership(TierSilver, 5)
	expired.Status = MembershipExpired

	cases := []struct {
		name     string
		viewerID string
		m        *Membership
		hasGrant bool
		kind     GrantKind
		outcome  Outcome
		reason   Reason
	}{
		{"anonymous", "", nil, false, GrantBiodata, OutcomeDeny, ReasonNotLoggedIn},
		{"owner", "owner", nil, false, GrantBiodata, OutcomeAllow, ReasonOwnBiodata},
		{"owner ignores membership state", "owner", expired, false, GrantContact, OutcomeAllow, ReasonOwnBiodata},
		{"existing grant", "viewer", nil, true, GrantBiodata, OutcomeAllow, ReasonAlreadyViewed},
		{"no membership", "viewer", nil, false, GrantBiodata, OutcomeDeny, ReasonNoMembership},
		{"expired membership", "viewer", expired, false, GrantBiodata, OutcomeDeny, ReasonMembershipInactive},
		{"paid tier exhausted", "viewer", activeMembership(TierSilver, 0), false, GrantBiodata, OutcomeDeny, ReasonNoCreditsRemaining},
		{"free tier exhausted", "viewer", activeMembership(TierFree, 0), false, GrantBiodata, OutcomeDeny, ReasonFreeTierExhausted},
		{"free tier cannot unlock contact", "viewer", activeMembership(TierFree, 2), false, GrantContact, OutcomeDeny, ReasonFreeTierUpgradeRequired},
		{"free tier may unlock biodata", "viewer", activeMembership(TierFree, 2), false, GrantBiodata, OutcomeAllowable, ReasonCanUnlock},
		{"paid tier may unlock contact", "viewer", activeMembership(TierGold, 1), false, GrantContact, OutcomeAllowable, ReasonCanUnlock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := EvaluateAccess(tc.viewerID, b, tc.m, tc.hasGrant, tc.kind)
			if d.Outcome != tc.outcome {
				t.Errorf("outcome = %s, want %s", d.Outcome, tc.outcome)
			}
			if d.Reason != tc.reason {
				t.Errorf("reason = %s, want %s", d.Reason, tc.reason)
			}
		})
	}
}

func TestMembership_ExpiredBy(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	m := activeMembership(TierSilver, 5)
	m.ExpiresAt = &past
	if !m.ExpiredBy(now) {
		t.Error("silver membership past its expiry should be expired")
	}

	m.ExpiresAt = &future
	if m.ExpiredBy(now) {
		t.Error("membership expiring in the future should not be expired")
	}

	free := activeMembership(TierFree, 2)
	free.ExpiresAt = &past
	if free.ExpiredBy(now) {
		t.Error("free memberships never expire by date")
	}

	cancelled := activeMembership(TierSilver, 5)
	cancelled.Status = MembershipCancelled
	cancelled.ExpiresAt = &past
	if cancelled.ExpiredBy(now) {
		t.Error("only active memberships transition to expired")
	}
}

func TestReason_NeedsMembership(t *testing.T) {
	needs := []Reason{
		ReasonNoMembership, ReasonMembershipInactive, ReasonNoCreditsRemaining,
		ReasonFreeTierExhausted, ReasonFreeTierUpgradeRequired,
	}
	for _, r := range needs {
		if !r.NeedsMembership() {
			t.Errorf("%s should need a membership", r)
		}
	}
	if ReasonNotLoggedIn.NeedsMembership() {
		t.Error("not_logged_in is fixed by logging in, not by buying a package")
	}
}
