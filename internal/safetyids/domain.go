package safetyids

import "time"

// Status values of a safety identifier.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// SafetyID is one issued identifier. A user holds at most one active
// identifier per edition.
type SafetyID struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	EditionID string     `json:"edition_id"`
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	IssuedAt  time.Time  `json:"issued_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
