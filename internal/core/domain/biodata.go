package domain

import (
	"errors"
	"time"
)

// BiodataKind distinguishes groom and bride profiles.
type BiodataKind string

const (
	KindGroom BiodataKind = "groom"
	KindBride BiodataKind = "bride"
)

var ErrBiodataNotFound = errors.New("biodata not found")
var ErrBiodataExists = errors.New("biodata already exists")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")

// PublicProfile holds the biodata fields visible to every browser,
// logged in or not.
type PublicProfile struct {
	Kind          BiodataKind `json:"kind" bson:"kind"`
	BirthYear     int         `json:"birth_year" bson:"birth_year"`
	HeightCm      int         `json:"height_cm" bson:"height_cm"`
	Complexion    string      `json:"complexion" bson:"complexion"`
	District      string      `json:"district" bson:"district"`
	MaritalStatus string      `json:"marital_status" bson:"marital_status"`
	Profession    string      `json:"profession" bson:"profession"`
	Education     string      `json:"education" bson:"education"`
	About         string      `json:"about,omitempty" bson:"about,omitempty"`
}

// GatedProfile holds the fields hidden behind a biodata-view grant.
type GatedProfile struct {
	FullName       string `json:"full_name" bson:"full_name"`
	PhotoURL       string `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	FatherName     string `json:"father_name" bson:"father_name"`
	MotherName     string `json:"mother_name" bson:"mother_name"`
	DetailedAddr   string `json:"detailed_address" bson:"detailed_address"`
	MonthlyIncome  int    `json:"monthly_income,omitempty" bson:"monthly_income,omitempty"`
}

// ContactInfo holds the guardian contact released by a contact-view grant.
type ContactInfo struct {
	GuardianPhone    string `json:"guardian_phone" bson:"guardian_phone"`
	GuardianRelation string `json:"guardian_relation" bson:"guardian_relation"`
}

// Biodata is a structured marital profile owned by exactly one user.
// Gated and contact sections are only ever returned to the owner or to a
// viewer holding the corresponding grant.
type Biodata struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	Number    string        `json:"number" bson:"number"`
	OwnerID   string        `json:"owner_id" bson:"owner_id"`
	Public    PublicProfile `json:"public" bson:"public"`
	Gated     GatedProfile  `json:"gated" bson:"gated"`
	Contact   ContactInfo   `json:"contact" bson:"contact"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}
