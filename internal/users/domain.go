package users

import (
	"time"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
)

// User is one console account. The users row carries the primary role (the
// first assignment submitted); every further scope lives in a relationship row.
type User struct {
	ID           string         `json:"id"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	PasswordHash string         `json:"-"`
	Role         hierarchy.Role `json:"role"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Relationship is one persisted user_companies row. EditionID and CompanyID
// are empty when the role does not carry that scope; empty persists as NULL.
type Relationship struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	EditionID string         `json:"edition_id,omitempty"`
	CompanyID string         `json:"company_id,omitempty"`
	Role      hierarchy.Role `json:"role"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// UserDetail combines the account with its persisted relationships.
type UserDetail struct {
	User          User           `json:"user"`
	Relationships []Relationship `json:"relationships"`
}

// RelationshipResult reports the outcome of one relationship write.
type RelationshipResult struct {
	Position       int            `json:"position"`
	RelationshipID string         `json:"relationship_id,omitempty"`
	Role           hierarchy.Role `json:"role"`
	Error          string         `json:"error,omitempty"`
}

// CreateResult makes the partial-failure window of the two-step creation
// explicit: the user row may exist while some relationship rows do not.
// Nothing is rolled back; callers retry only the missing relationships.
type CreateResult struct {
	User    User                 `json:"user"`
	Created []RelationshipResult `json:"relationships_created"`
	Failed  []RelationshipResult `json:"relationships_failed"`
}

// RetryResult reports a relationship-only retry pass.
type RetryResult struct {
	Created []RelationshipResult `json:"relationships_created"`
	Skipped int                  `json:"already_present"`
	Failed  []RelationshipResult `json:"relationships_failed"`
}
