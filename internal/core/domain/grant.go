package domain

import (
	"errors"
	"time"
)

// GrantKind selects which gated section a grant unlocks. Biodata-view and
// contact-view are tracked independently, each with its own credit charge.
type GrantKind string

const (
	GrantBiodata GrantKind = "biodata"
	GrantContact GrantKind = "contact"
)

var ErrGrantExists = errors.New("grant already exists")

// ViewGrant is a durable fact that a viewer has unlocked one gated section of
// one biodata. At most one grant exists per (viewer, biodata, kind); once
// written it is never updated, so repeated unlocks stay free.
type ViewGrant struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ViewerID  string    `json:"viewer_id" bson:"viewer_id"`
	BiodataID string    `json:"biodata_id" bson:"biodata_id"`
	Kind      GrantKind `json:"kind" bson:"kind"`
	GrantedAt time.Time `json:"granted_at" bson:"granted_at"`
}
