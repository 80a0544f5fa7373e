package companies

import (
	"time"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
)

// Company belongs to exactly one edition. When IsChannelPartner is set the
// company acts as a "channel" and may parent other companies; a channel can
// never have a parent of its own.
type Company struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	EditionID        string    `json:"edition_id"`
	IsChannelPartner bool      `json:"is_channel_partner"`
	ParentCompanyID  string    `json:"parent_company_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasParent reports whether the company sits under a channel.
func (c Company) HasParent() bool {
	return c.ParentCompanyID != ""
}

// Ref projects the company onto the selection rules' catalog view.
func (c Company) Ref() hierarchy.CompanyRef {
	return hierarchy.CompanyRef{
		ID:               c.ID,
		EditionID:        c.EditionID,
		ParentCompanyID:  c.ParentCompanyID,
		IsChannelPartner: c.IsChannelPartner,
	}
}

// Refs projects a catalog slice for the selection rules.
func Refs(list []Company) []hierarchy.CompanyRef {
	refs := make([]hierarchy.CompanyRef, len(list))
	for i, c := range list {
		refs[i] = c.Ref()
	}
	return refs
}
