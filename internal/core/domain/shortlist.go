package domain

import (
	"errors"
	"time"
)

var ErrAlreadyShortlisted = errors.New("already shortlisted")
var ErrNotShortlisted = errors.New("not shortlisted")

// ShortlistEntry bookmarks a biodata for a user. Unique per (user, biodata).
type ShortlistEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	BiodataID string    `json:"biodata_id" bson:"biodata_id"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}
