package ports

import (
	"context"
	"io"
	"time"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// CreateBiodataInput carries all data needed to create or update a profile.
type CreateBiodataInput struct {
	OwnerID string
	Public  domain.PublicProfile
	Gated   domain.GatedProfile
	Contact domain.ContactInfo
}

// ProfileView is a biodata as seen by a specific viewer. Gated and Contact
// are nil unless the viewer is the owner or holds the corresponding grant.
type ProfileView struct {
	Number    string
	Public    domain.PublicProfile
	Gated     *domain.GatedProfile
	Contact   *domain.ContactInfo
	IsOwner   bool
	Unlocked  bool          // biodata-view grant held
	Reason    domain.Reason // why gated fields are or are not present
	CreatedAt time.Time
}

// BiodataSummary is the lightweight public view used in browse responses.
type BiodataSummary struct {
	Number    string
	Public    domain.PublicProfile
	CreatedAt time.Time
}

// BrowseResult is returned by Browse.
type BrowseResult struct {
	Items      []BiodataSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OwnBiodataStats is the owner's dashboard view of their profile.
type OwnBiodataStats struct {
	Biodata    *domain.Biodata
	ViewsToday int64
}

// BiodataService defines use-case operations on profiles.
type BiodataService interface {
	Create(ctx context.Context, input CreateBiodataInput) (*domain.Biodata, error)
	UpdateOwn(ctx context.Context, input CreateBiodataInput) (*domain.Biodata, error)
	// GetProfile returns the biodata redacted for the given viewer; an empty
	// viewerID means anonymous.
	GetProfile(ctx context.Context, viewerID, number string) (*ProfileView, error)
	Browse(ctx context.Context, filter BrowseFilter) (*BrowseResult, error)
	// GetOwn returns the caller's own biodata plus its view stats.
	GetOwn(ctx context.Context, ownerID string) (*OwnBiodataStats, error)
	// UploadPhoto pushes the image to the external host and returns its
	// public URL.
	UploadPhoto(ctx context.Context, ownerID, filename string, r io.Reader) (string, error)
}

// ImageHost uploads profile photos to an external hosting service and
// returns a public URL. The host is opaque to this system.
type ImageHost interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}
