package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// ViewStatsRecorder abstracts the async profile-view pipeline (the queue
// dispatcher). Record must never block the request path for long.
type ViewStatsRecorder interface {
	Record(event ports.ProfileViewEvent)
}

// BiodataService implements profile CRUD, browsing, and viewer-specific
// redaction of gated fields.
type BiodataService struct {
	repo        ports.BiodataRepository
	grants      ports.GrantRepository
	memberships ports.MembershipService
	images      ports.ImageHost
	views       ViewStatsRecorder
	counter     ViewCounter
	log         zerolog.Logger
}

func NewBiodataService(
	repo ports.BiodataRepository,
	grants ports.GrantRepository,
	memberships ports.MembershipService,
	images ports.ImageHost,
	views ViewStatsRecorder,
	counter ViewCounter,
	log zerolog.Logger,
) *BiodataService {
	return &BiodataService{
		repo:        repo,
		grants:      grants,
		memberships: memberships,
		images:      images,
		views:       views,
		counter:     counter,
		log:         log,
	}
}

// Create registers the caller's biodata. One profile per user.
func (s *BiodataService) Create(ctx context.Context, input ports.CreateBiodataInput) (*domain.Biodata, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if _, err := s.repo.FindByOwner(ctx, input.OwnerID); err == nil {
		return nil, domain.ErrBiodataExists
	}

	now := time.Now().UTC()
	b := &domain.Biodata{
		Number:    generateBiodataNumber(),
		OwnerID:   input.OwnerID,
		Public:    input.Public,
		Gated:     input.Gated,
		Contact:   input.Contact,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create biodata")
		return nil, err
	}

	s.log.Info().Str("number", created.Number).Str("owner_id", input.OwnerID).Msg("biodata created")
	return created, nil
}

// UpdateOwn replaces the caller's profile sections in place.
func (s *BiodataService) UpdateOwn(ctx context.Context, input ports.CreateBiodataInput) (*domain.Biodata, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	b, err := s.repo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	// The photo URL only ever enters through UploadPhoto, so the incoming
	// gated section always carries an empty one. Keep the stored URL.
	photo := b.Gated.PhotoURL
	b.Public = input.Public
	b.Gated = input.Gated
	b.Gated.PhotoURL = photo
	b.Contact = input.Contact
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update biodata: %w", err)
	}
	return b, nil
}

// GetProfile returns the biodata as the given viewer is entitled to see it.
// Gated fields are attached only for the owner or a grant holder; the
// contact section additionally requires its own contact-view grant.
func (s *BiodataService) GetProfile(ctx context.Context, viewerID, number string) (*ports.ProfileView, error) {
	b, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	isOwner := viewerID != "" && viewerID == b.OwnerID

	var hasBiodataGrant, hasContactGrant bool
	var m *domain.Membership
	if viewerID != "" && !isOwner {
		if hasBiodataGrant, err = s.grants.Has(ctx, viewerID, b.ID, domain.GrantBiodata); err != nil {
			return nil, fmt.Errorf("check grant: %w", err)
		}
		if hasContactGrant, err = s.grants.Has(ctx, viewerID, b.ID, domain.GrantContact); err != nil {
			return nil, fmt.Errorf("check grant: %w", err)
		}
		if m, err = s.memberships.GetCurrent(ctx, viewerID); err != nil {
			return nil, err
		}
	}

	dec := domain.EvaluateAccess(viewerID, b, m, hasBiodataGrant, domain.GrantBiodata)

	view := &ports.ProfileView{
		Number:    b.Number,
		Public:    b.Public,
		IsOwner:   isOwner,
		Unlocked:  isOwner || hasBiodataGrant,
		Reason:    dec.Reason,
		CreatedAt: b.CreatedAt,
	}
	if dec.Outcome == domain.OutcomeAllow {
		gated := b.Gated
		view.Gated = &gated
	}
	if isOwner || hasContactGrant {
		contact := b.Contact
		view.Contact = &contact
	}

	if !isOwner && s.views != nil {
		s.views.Record(ports.ProfileViewEvent{
			Number:   b.Number,
			ViewerID: viewerID,
			ViewedAt: time.Now().UTC(),
		})
	}

	return view, nil
}

// Browse lists public profile summaries matching the filter.
func (s *BiodataService) Browse(ctx context.Context, filter ports.BrowseFilter) (*ports.BrowseResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 50 {
		filter.Limit = 50
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("browse biodatas: %w", err)
	}

	summaries := make([]ports.BiodataSummary, 0, len(items))
	for _, b := range items {
		summaries = append(summaries, ports.BiodataSummary{
			Number:    b.Number,
			Public:    b.Public,
			CreatedAt: b.CreatedAt,
		})
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.BrowseResult{
		Items:      summaries,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetOwn returns the caller's biodata with its view counter for today.
func (s *BiodataService) GetOwn(ctx context.Context, ownerID string) (*ports.OwnBiodataStats, error) {
	if ownerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	b, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &ports.OwnBiodataStats{Biodata: b}
	if s.counter != nil {
		views, err := s.counter.Count(ctx, b.Number, time.Now().UTC())
		if err != nil {
			s.log.Warn().Err(err).Str("number", b.Number).Msg("view counter unavailable")
		} else {
			stats.ViewsToday = views
		}
	}
	return stats, nil
}

// UploadPhoto pushes a profile photo to the external image host and, when the
// caller already has a biodata, stores the returned URL on it.
func (s *BiodataService) UploadPhoto(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	if ownerID == "" {
		return "", domain.ErrNotAuthenticated
	}

	url, err := s.images.Upload(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	b, err := s.repo.FindByOwner(ctx, ownerID)
	if err == nil {
		b.Gated.PhotoURL = url
		b.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, b); err != nil {
			return "", fmt.Errorf("store photo url: %w", err)
		}
	}

	return url, nil
}

// generateBiodataNumber returns a profile number in the format BD-XXXXXXXX.
func generateBiodataNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("BD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("BD-%08X", b)
}
