package assignments

import "github.com/safetyid/safetyid-console/internal/hierarchy"

// Headline returns the display text for an assignment row. Strict priority:
// company > channel > edition > global fallback.
func Headline(a Assignment) string {
	switch {
	case a.CompanyName != "":
		return a.CompanyName
	case a.ChannelName != "":
		return a.ChannelName
	case a.EditionName != "" && a.EditionID != hierarchy.ScopeGlobal:
		return a.EditionName
	default:
		return "Global Access"
	}
}

// HierarchyCaption returns the fixed scope caption for a role. Display only;
// it never affects behavior.
func HierarchyCaption(role hierarchy.Role, hasChannel bool) string {
	switch role {
	case hierarchy.RoleSuperAdmin:
		return "Global → All Systems"
	case hierarchy.RoleEditionAdmin:
		return "Edition → All Channels and Companies"
	case hierarchy.RoleChannelAdmin:
		return "Edition → Channel → All Companies"
	case hierarchy.RoleCompanyAdmin:
		if hasChannel {
			return "Edition → Channel → Company → All Users"
		}
		return "Edition → Company → All Users"
	case hierarchy.RoleUser:
		if hasChannel {
			return "Edition → Channel → Company → Your Profile"
		}
		return "Edition → Company → Your Profile"
	default:
		return ""
	}
}
