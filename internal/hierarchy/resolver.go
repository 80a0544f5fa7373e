// Package hierarchy answers, at each step of the cascading
// Edition → Channel → Company selection, which choices are legal next.
// All functions are pure over in-memory catalog views; the package depends
// on nothing else so every domain package can consume it.
package hierarchy

// Sentinel values used on the wire for unset selection fields.
const (
	NotSelected = "not-selected"
	ChannelNone = "none"
	ScopeGlobal = "global"
)

// Role is a role a user may hold within a selection scope.
type Role string

// Known roles, from widest to narrowest scope.
const (
	RoleSuperAdmin   Role = "super-admin"
	RoleEditionAdmin Role = "edition-admin"
	RoleChannelAdmin Role = "channel-admin"
	RoleCompanyAdmin Role = "company-admin"
	RoleUser         Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleEditionAdmin, RoleChannelAdmin, RoleCompanyAdmin, RoleUser:
		return true
	}
	return false
}

// CompanyRef is the slice of a company row the selection rules filter on.
// The companies package projects its rows into refs before calling in here.
type CompanyRef struct {
	ID               string
	EditionID        string
	ParentCompanyID  string
	IsChannelPartner bool
}

// ChannelsForEdition returns the channel-partner companies of an edition,
// preserving input order.
func ChannelsForEdition(editionID string, list []CompanyRef) []CompanyRef {
	channels := make([]CompanyRef, 0)
	for _, c := range list {
		if c.IsChannelPartner && c.EditionID == editionID {
			channels = append(channels, c)
		}
	}
	return channels
}

// CompaniesForChannel returns the non-channel companies under a channel, or
// the edition-only companies (no parent) when channelID is the "none"
// sentinel. An empty input yields an empty result; the caller is responsible
// for fetching the edition's companies first.
func CompaniesForChannel(channelID string, editionCompanies []CompanyRef) []CompanyRef {
	result := make([]CompanyRef, 0)
	for _, c := range editionCompanies {
		if c.IsChannelPartner {
			continue
		}
		if channelID == ChannelNone {
			if c.ParentCompanyID == "" {
				result = append(result, c)
			}
			continue
		}
		if c.ParentCompanyID == channelID {
			result = append(result, c)
		}
	}
	return result
}

// AvailableRoles returns the roles legal for the current selection. Eligibility
// is additive and strictly ordered by how much of the selection is filled in.
// RoleSuperAdmin is never returned here; it is granted only through the
// dedicated toggle on the assignment builder.
func AvailableRoles(sel Selection) []Role {
	if sel.EditionID == "" || sel.EditionID == NotSelected {
		return []Role{}
	}
	roles := []Role{RoleEditionAdmin}
	if sel.ChannelID != "" && sel.ChannelID != ChannelNone {
		roles = append(roles, RoleChannelAdmin)
	}
	if sel.CompanyID != "" && sel.CompanyID != NotSelected {
		roles = append(roles, RoleCompanyAdmin, RoleUser)
	}
	return roles
}
