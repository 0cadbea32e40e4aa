package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubBiodataRepo struct {
	mu       sync.Mutex
	byNumber map[string]*domain.Biodata
	seq      int
}

func newStubBiodataRepo() *stubBiodataRepo {
	return &stubBiodataRepo{byNumber: make(map[string]*domain.Biodata)}
}

func (r *stubBiodataRepo) Create(_ context.Context, b *domain.Biodata) (*domain.Biodata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *b
	clone.ID = fmt.Sprintf("bio-%d", r.seq)
	r.byNumber[clone.Number] = &clone
	out := clone
	return &out, nil
}

func (r *stubBiodataRepo) FindByID(_ context.Context, id string) (*domain.Biodata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byNumber {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBiodataNotFound
}

func (r *stubBiodataRepo) FindByNumber(_ context.Context, number string) (*domain.Biodata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byNumber[number]
	if !ok {
		return nil, domain.ErrBiodataNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBiodataRepo) FindByOwner(_ context.Context, ownerID string) (*domain.Biodata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byNumber {
		if b.OwnerID == ownerID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBiodataNotFound
}

func (r *stubBiodataRepo) Update(_ context.Context, b *domain.Biodata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.byNumber[clone.Number] = &clone
	return nil
}

func (r *stubBiodataRepo) List(_ context.Context, f ports.BrowseFilter) ([]*domain.Biodata, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Biodata
	for _, b := range r.byNumber {
		if f.Kind != "" && string(b.Public.Kind) != f.Kind {
			continue
		}
		if f.District != "" && b.Public.District != f.District {
			continue
		}
		if f.MaritalStatus != "" && b.Public.MaritalStatus != f.MaritalStatus {
			continue
		}
		if f.BirthYearFrom != 0 && b.Public.BirthYear < f.BirthYearFrom {
			continue
		}
		if f.BirthYearTo != 0 && b.Public.BirthYear > f.BirthYearTo {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

// stubGrantRepo enforces the same uniqueness the real Mongo index does, under
// a single lock so concurrent Insert calls race exactly once.
type stubGrantRepo struct {
	mu     sync.Mutex
	grants map[string]bool
}

func newStubGrantRepo() *stubGrantRepo {
	return &stubGrantRepo{grants: make(map[string]bool)}
}

func grantKey(viewerID, biodataID string, kind domain.GrantKind) string {
	return viewerID + "|" + biodataID + "|" + string(kind)
}

func (r *stubGrantRepo) Has(_ context.Context, viewerID, biodataID string, kind domain.GrantKind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.grants[grantKey(viewerID, biodataID, kind)], nil
}

func (r *stubGrantRepo) Insert(_ context.Context, g *domain.ViewGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := grantKey(g.ViewerID, g.BiodataID, g.Kind)
	if r.grants[key] {
		return domain.ErrGrantExists
	}
	r.grants[key] = true
	return nil
}

func (r *stubGrantRepo) Delete(_ context.Context, viewerID, biodataID string, kind domain.GrantKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, grantKey(viewerID, biodataID, kind))
	return nil
}

func (r *stubGrantRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.grants)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type unlockFixture struct {
	biodatas    *stubBiodataRepo
	grants      *stubGrantRepo
	memberships *stubMembershipRepo
	ledger      *MembershipLedger
	svc         *UnlockCoordinator
}

func newUnlockFixture() *unlockFixture {
	biodatas := newStubBiodataRepo()
	grants := newStubGrantRepo()
	memberships := newStubMembershipRepo()
	ledger := NewMembershipLedger(memberships, zerolog.Nop())
	return &unlockFixture{
		biodatas:    biodatas,
		grants:      grants,
		memberships: memberships,
		ledger:      ledger,
		svc:         NewUnlockCoordinator(biodatas, grants, ledger, zerolog.Nop()),
	}
}

func (f *unlockFixture) seedBiodata(number, ownerID string) *domain.Biodata {
	b, _ := f.biodatas.Create(context.Background(), &domain.Biodata{
		Number:  number,
		OwnerID: ownerID,
		Gated:   domain.GatedProfile{FullName: "Hidden Name", PhotoURL: "https://img.example/p.jpg"},
		Contact: domain.ContactInfo{GuardianPhone: "+8801700000000", GuardianRelation: "father"},
	})
	return b
}

func (f *unlockFixture) seedMembership(userID string, tier domain.Tier, remaining, total int) *domain.Membership {
	m := &domain.Membership{
		UserID:           userID,
		Tier:             tier,
		Status:           domain.MembershipActive,
		CreditsRemaining: remaining,
		CreditsTotal:     total,
		StartsAt:         time.Now().UTC(),
	}
	if tier != domain.TierFree {
		exp := time.Now().UTC().AddDate(0, 0, 30)
		m.ExpiresAt = &exp
	}
	return f.memberships.seed(m)
}

// ---------------------------------------------------------------------------
// Unlock tests
// ---------------------------------------------------------------------------

func TestUnlock_ChargesOnceThenIdempotent(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	seeded := f.seedMembership("viewer", domain.TierSilver, 10, 10)

	first, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("first unlock failed: %v", err)
	}
	if !first.Granted || !first.Charged {
		t.Errorf("first unlock: granted=%v charged=%v, want true/true", first.Granted, first.Charged)
	}
	if first.Remaining == nil || *first.Remaining != 9 {
		t.Errorf("remaining = %v, want 9", first.Remaining)
	}
	if first.Gated == nil || first.Gated.FullName != "Hidden Name" {
		t.Errorf("gated fields missing from charged unlock: %+v", first.Gated)
	}

	second, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("second unlock failed: %v", err)
	}
	if !second.Granted || second.Charged {
		t.Errorf("second unlock: granted=%v charged=%v, want true/false", second.Granted, second.Charged)
	}
	if second.Reason != domain.ReasonAlreadyViewed {
		t.Errorf("reason = %s, want already_viewed", second.Reason)
	}
	if second.Gated == nil {
		t.Error("repeat unlock should still return the gated fields")
	}

	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 9 {
		t.Errorf("credits after double unlock = %d, want 9 (exactly one charge)", got.CreditsRemaining)
	}
}

func TestUnlock_OwnBiodataNeverCharges(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	seeded := f.seedMembership("owner", domain.TierSilver, 5, 10)

	res, err := f.svc.Unlock(context.Background(), "owner", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !res.Granted || res.Charged {
		t.Errorf("granted=%v charged=%v, want true/false", res.Granted, res.Charged)
	}
	if res.Reason != domain.ReasonOwnBiodata {
		t.Errorf("reason = %s, want own_biodata", res.Reason)
	}
	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 5 {
		t.Errorf("owner unlock decremented credits: %d", got.CreditsRemaining)
	}
	if f.grants.count() != 0 {
		t.Error("owner unlock should not write a grant")
	}
}

func TestUnlock_ZeroCredits_PaidAndFreeMessagesDiffer(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")

	paid := f.seedMembership("paid-viewer", domain.TierGold, 0, 30)
	res, err := f.svc.Unlock(context.Background(), "paid-viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("expected a structured denial, got error: %v", err)
	}
	if res.Granted {
		t.Error("unlock with zero credits should be denied")
	}
	if res.Reason != domain.ReasonNoCreditsRemaining {
		t.Errorf("paid reason = %s, want no_credits_remaining", res.Reason)
	}
	if got := f.memberships.get(paid.ID); got.CreditsRemaining != 0 {
		t.Errorf("credits changed on denial: %d", got.CreditsRemaining)
	}

	f2 := newUnlockFixture()
	f2.seedBiodata("BD-00000002", "owner")
	f2.seedMembership("free-viewer", domain.TierFree, 0, 2)
	res2, err := f2.svc.Unlock(context.Background(), "free-viewer", "BD-00000002", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("expected a structured denial, got error: %v", err)
	}
	if res2.Reason != domain.ReasonFreeTierExhausted {
		t.Errorf("free reason = %s, want free_tier_exhausted", res2.Reason)
	}
}

func TestUnlock_FreeTierStarterFlow(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "o1")
	f.seedBiodata("BD-00000002", "o2")
	f.seedBiodata("BD-00000003", "o3")
	f.seedMembership("viewer", domain.TierFree, 2, 2)

	for _, number := range []string{"BD-00000001", "BD-00000002"} {
		res, err := f.svc.Unlock(context.Background(), "viewer", number, domain.GrantBiodata)
		if err != nil || !res.Granted || !res.Charged {
			t.Fatalf("starter unlock of %s failed: res=%+v err=%v", number, res, err)
		}
	}

	third, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000003", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("expected a structured denial, got error: %v", err)
	}
	if third.Granted {
		t.Error("third unlock should be denied after the starter credits are spent")
	}
	if third.Reason != domain.ReasonFreeTierExhausted {
		t.Errorf("reason = %s, want free_tier_exhausted", third.Reason)
	}
}

func TestUnlock_FreeTierCannotUnlockContact(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	seeded := f.seedMembership("viewer", domain.TierFree, 2, 2)

	res, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantContact)
	if err != nil {
		t.Fatalf("expected a structured denial, got error: %v", err)
	}
	if res.Granted {
		t.Error("free tier must not unlock contact info, even with credits left")
	}
	if res.Reason != domain.ReasonFreeTierUpgradeRequired {
		t.Errorf("reason = %s, want free_tier_upgrade_required", res.Reason)
	}
	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 2 {
		t.Errorf("credits changed on denial: %d", got.CreditsRemaining)
	}
}

func TestUnlock_BiodataAndContactBilledIndependently(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	seeded := f.seedMembership("viewer", domain.TierGold, 30, 30)

	bio, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil || !bio.Charged {
		t.Fatalf("biodata unlock: res=%+v err=%v", bio, err)
	}
	contact, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantContact)
	if err != nil || !contact.Charged {
		t.Fatalf("contact unlock: res=%+v err=%v", contact, err)
	}
	if contact.Contact == nil || contact.Contact.GuardianPhone == "" {
		t.Error("contact unlock should return guardian contact info")
	}

	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 28 {
		t.Errorf("credits = %d, want 28 (one per kind)", got.CreditsRemaining)
	}
}

func TestUnlock_ExpiredMembershipDeniedAfterLazyFlip(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	past := time.Now().UTC().Add(-time.Hour)
	seeded := f.memberships.seed(&domain.Membership{
		UserID:           "viewer",
		Tier:             domain.TierSilver,
		Status:           domain.MembershipActive,
		CreditsRemaining: 5,
		CreditsTotal:     10,
		ExpiresAt:        &past,
	})

	res, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("expected a structured denial, got error: %v", err)
	}
	if res.Granted {
		t.Error("unlock against a lapsed membership should be denied")
	}
	if res.Reason != domain.ReasonMembershipInactive {
		t.Errorf("reason = %s, want membership_inactive", res.Reason)
	}
	if got := f.memberships.get(seeded.ID); got.Status != domain.MembershipExpired {
		t.Errorf("lazy expiry not persisted, status = %s", got.Status)
	}
}

func TestUnlock_NotAuthenticated(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")

	if _, err := f.svc.Unlock(context.Background(), "", "BD-00000001", domain.GrantBiodata); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got: %v", err)
	}
}

func TestUnlock_BiodataNotFound(t *testing.T) {
	f := newUnlockFixture()
	f.seedMembership("viewer", domain.TierSilver, 10, 10)

	if _, err := f.svc.Unlock(context.Background(), "viewer", "BD-MISSING", domain.GrantBiodata); !errors.Is(err, domain.ErrBiodataNotFound) {
		t.Errorf("expected ErrBiodataNotFound, got: %v", err)
	}
}

func TestUnlock_NoMembership(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")

	res, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("expected a structured denial, got error: %v", err)
	}
	if res.Granted || res.Reason != domain.ReasonNoMembership {
		t.Errorf("got %+v, want denial with no_membership", res)
	}
}

// ---------------------------------------------------------------------------
// Concurrency properties
// ---------------------------------------------------------------------------

func TestUnlock_ConcurrentSamePair_ExactlyOneCharge(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	seeded := f.seedMembership("viewer", domain.TierSilver, 1, 10)

	const n = 16
	results := make([]*ports.UnlockResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
		}(i)
	}
	wg.Wait()

	charged := 0
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d returned error: %v", i, errs[i])
		}
		if !results[i].Granted {
			t.Errorf("call %d not granted: %+v", i, results[i])
		}
		if results[i].Charged {
			charged++
		}
	}
	if charged != 1 {
		t.Errorf("charged %d times, want exactly 1", charged)
	}
	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 0 {
		t.Errorf("credits = %d, want 0", got.CreditsRemaining)
	}
}

func TestUnlock_ConcurrentDifferentPairs_SingleCreditSpentOnce(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "o1")
	f.seedBiodata("BD-00000002", "o2")
	seeded := f.seedMembership("viewer", domain.TierSilver, 1, 10)

	var wg sync.WaitGroup
	results := make([]*ports.UnlockResult, 2)
	errs := make([]error, 2)
	numbers := []string{"BD-00000001", "BD-00000002"}

	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Unlock(context.Background(), "viewer", numbers[i], domain.GrantBiodata)
		}(i)
	}
	wg.Wait()

	granted, denied := 0, 0
	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d returned error: %v", i, errs[i])
		}
		if results[i].Granted {
			granted++
		} else {
			denied++
			if results[i].Reason != domain.ReasonNoCreditsRemaining {
				t.Errorf("loser reason = %s, want no_credits_remaining", results[i].Reason)
			}
		}
	}
	if granted != 1 || denied != 1 {
		t.Errorf("granted=%d denied=%d, want exactly one of each", granted, denied)
	}
	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 0 {
		t.Errorf("credits = %d, want 0", got.CreditsRemaining)
	}
	// The loser must have rolled its grant claim back.
	if f.grants.count() != 1 {
		t.Errorf("grant count = %d, want 1 (loser rolled back)", f.grants.count())
	}
}

// ---------------------------------------------------------------------------
// CanView probe
// ---------------------------------------------------------------------------

func TestCanView_RoundTripAfterUnlock(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")
	seeded := f.seedMembership("viewer", domain.TierSilver, 10, 10)

	before, err := f.svc.CanView(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if before.CanView || !before.CanUnlock || before.Unlocked {
		t.Errorf("before unlock: %+v, want can_unlock only", before)
	}

	if _, err := f.svc.Unlock(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	after, err := f.svc.CanView(context.Background(), "viewer", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !after.CanView || !after.Unlocked {
		t.Errorf("after unlock: %+v, want canView+unlocked", after)
	}
	if after.Reason != domain.ReasonAlreadyViewed {
		t.Errorf("reason = %s, want already_viewed", after.Reason)
	}
	if after.Remaining == nil || *after.Remaining != 9 {
		t.Errorf("remaining = %v, want 9 (probe never re-charges)", after.Remaining)
	}

	// Probing is free: balance unchanged after any number of probes.
	if got := f.memberships.get(seeded.ID); got.CreditsRemaining != 9 {
		t.Errorf("credits = %d, want 9", got.CreditsRemaining)
	}
}

func TestCanView_Anonymous(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")

	d, err := f.svc.CanView(context.Background(), "", "BD-00000001", domain.GrantBiodata)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if d.CanView || d.CanUnlock || d.Unlocked {
		t.Errorf("anonymous probe: %+v, want all false", d)
	}
	if d.Reason != domain.ReasonNotLoggedIn {
		t.Errorf("reason = %s, want not_logged_in", d.Reason)
	}
}

func TestCanView_Owner(t *testing.T) {
	f := newUnlockFixture()
	f.seedBiodata("BD-00000001", "owner")

	d, err := f.svc.CanView(context.Background(), "owner", "BD-00000001", domain.GrantContact)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !d.CanView || !d.Unlocked {
		t.Errorf("owner probe: %+v, want canView+unlocked", d)
	}
	if d.Reason != domain.ReasonOwnBiodata {
		t.Errorf("reason = %s, want own_biodata", d.Reason)
	}
}
