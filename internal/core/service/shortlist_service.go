package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// ShortlistService implements profile bookmarks.
type ShortlistService struct {
	repo     ports.ShortlistRepository
	biodatas ports.BiodataRepository
	log      zerolog.Logger
}

func NewShortlistService(repo ports.ShortlistRepository, biodatas ports.BiodataRepository, log zerolog.Logger) *ShortlistService {
	return &ShortlistService{repo: repo, biodatas: biodatas, log: log}
}

func (s *ShortlistService) Add(ctx context.Context, userID, number string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	b, err := s.biodatas.FindByNumber(ctx, number)
	if err != nil {
		return err
	}
	if b.OwnerID == userID {
		return domain.ErrForbidden
	}

	return s.repo.Insert(ctx, &domain.ShortlistEntry{
		UserID:    userID,
		BiodataID: b.ID,
		AddedAt:   time.Now().UTC(),
	})
}

func (s *ShortlistService) Remove(ctx context.Context, userID, number string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	b, err := s.biodatas.FindByNumber(ctx, number)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, b.ID)
}

// List returns public summaries of the user's bookmarked profiles. Entries
// whose biodata has meanwhile vanished are skipped.
func (s *ShortlistService) List(ctx context.Context, userID string) ([]ports.BiodataSummary, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shortlist: %w", err)
	}

	summaries := make([]ports.BiodataSummary, 0, len(entries))
	for _, e := range entries {
		b, err := s.biodatas.FindByID(ctx, e.BiodataID)
		if err != nil {
			continue
		}
		summaries = append(summaries, ports.BiodataSummary{
			Number:    b.Number,
			Public:    b.Public,
			CreatedAt: b.CreatedAt,
		})
	}
	return summaries, nil
}
