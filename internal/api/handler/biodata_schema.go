package handler

import (
	"time"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// --- Request types ---

type publicSectionRequest struct {
	Kind          string `json:"kind"           validate:"required,oneof=groom bride"`
	BirthYear     int    `json:"birth_year"     validate:"required,gte=1940,lte=2010"`
	HeightCm      int    `json:"height_cm"      validate:"required,gte=100,lte=250"`
	Complexion    string `json:"complexion"     validate:"required"`
	District      string `json:"district"       validate:"required"`
	MaritalStatus string `json:"marital_status" validate:"required,oneof=never_married divorced widowed"`
	Profession    string `json:"profession"     validate:"required"`
	Education     string `json:"education"      validate:"required"`
	About         string `json:"about"`
}

type gatedSectionRequest struct {
	FullName      string `json:"full_name"        validate:"required"`
	FatherName    string `json:"father_name"      validate:"required"`
	MotherName    string `json:"mother_name"      validate:"required"`
	DetailedAddr  string `json:"detailed_address" validate:"required"`
	MonthlyIncome int    `json:"monthly_income"   validate:"gte=0"`
}

type contactSectionRequest struct {
	GuardianPhone    string `json:"guardian_phone"    validate:"required"`
	GuardianRelation string `json:"guardian_relation" validate:"required"`
}

type upsertBiodataRequest struct {
	Public  publicSectionRequest  `json:"public"  validate:"required"`
	Gated   gatedSectionRequest   `json:"gated"   validate:"required"`
	Contact contactSectionRequest `json:"contact" validate:"required"`
}

// toInput maps the HTTP payload onto the service-layer input. The photo URL
// is never accepted from this payload; it is set through the upload endpoint.
func (r *upsertBiodataRequest) toInput(ownerID string) ports.CreateBiodataInput {
	return ports.CreateBiodataInput{
		OwnerID: ownerID,
		Public: domain.PublicProfile{
			Kind:          domain.BiodataKind(r.Public.Kind),
			BirthYear:     r.Public.BirthYear,
			HeightCm:      r.Public.HeightCm,
			Complexion:    r.Public.Complexion,
			District:      r.Public.District,
			MaritalStatus: r.Public.MaritalStatus,
			Profession:    r.Public.Profession,
			Education:     r.Public.Education,
			About:         r.Public.About,
		},
		Gated: domain.GatedProfile{
			FullName:      r.Gated.FullName,
			FatherName:    r.Gated.FatherName,
			MotherName:    r.Gated.MotherName,
			DetailedAddr:  r.Gated.DetailedAddr,
			MonthlyIncome: r.Gated.MonthlyIncome,
		},
		Contact: domain.ContactInfo{
			GuardianPhone:    r.Contact.GuardianPhone,
			GuardianRelation: r.Contact.GuardianRelation,
		},
	}
}

// --- Response types ---

type biodataSummaryResponse struct {
	Number    string               `json:"number"`
	Public    domain.PublicProfile `json:"public"`
	CreatedAt time.Time            `json:"created_at"`
	Links     biodataLinks         `json:"_links"`
}

type biodataLinks struct {
	Self    string `json:"self"`
	CanView string `json:"can_view"`
}

type browseResponse struct {
	Items      []biodataSummaryResponse `json:"items"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

// profileResponse is a biodata as seen by the requesting viewer. Gated and
// contact sections are present only when the viewer is entitled to them.
type profileResponse struct {
	Number    string                `json:"number"`
	Public    domain.PublicProfile  `json:"public"`
	Gated     *domain.GatedProfile  `json:"gated,omitempty"`
	Contact   *domain.ContactInfo   `json:"contact,omitempty"`
	IsOwner   bool                  `json:"is_owner"`
	Unlocked  bool                  `json:"unlocked"`
	Reason    string                `json:"reason"`
	CreatedAt time.Time             `json:"created_at"`
	Links     biodataLinks          `json:"_links"`
}

type ownBiodataResponse struct {
	Biodata    *domain.Biodata `json:"biodata"`
	ViewsToday int64           `json:"views_today"`
}

type photoUploadResponse struct {
	PhotoURL string `json:"photo_url"`
}

func toSummaryResponse(s ports.BiodataSummary) biodataSummaryResponse {
	return biodataSummaryResponse{
		Number:    s.Number,
		Public:    s.Public,
		CreatedAt: s.CreatedAt,
		Links: biodataLinks{
			Self:    "/v1/biodatas/" + s.Number,
			CanView: "/v1/biodatas/" + s.Number + "/can-view",
		},
	}
}
