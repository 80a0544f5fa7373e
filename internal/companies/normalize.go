package companies

import (
	"errors"
	"strings"
)

// ErrMissingIdentity indicates a legacy record without an id or a name.
var ErrMissingIdentity = errors.New("companies: legacy record missing id or name")

// LegacyCompany mirrors the unstable wire schema of the old edge functions,
// which emitted the same fields under several casings and occasionally nested
// the channel flag under a type object. All known variants are decoded here
// and reconciled exactly once; the rest of the codebase only ever sees the
// canonical Company.
type LegacyCompany struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	EditionID     string `json:"editionId"`
	EditionIDSnek string `json:"edition_id"`

	IsChannelPartner     *bool `json:"isChannelPartner"`
	IsChannelPartnerSnek *bool `json:"is_channel_partner"`
	Type                 *struct {
		IsChannelPartner *bool `json:"isChannelPartner"`
	} `json:"type"`

	ParentCompanyID     string `json:"parentCompanyId"`
	ParentCompanyIDSnek string `json:"parent_company_id"`
	ChannelID           string `json:"channelId"`
	ChannelIDSnek       string `json:"channel_id"`
}

// Normalize maps every known source key onto the canonical Company. The first
// non-empty variant wins; the nested type flag takes precedence over the flat
// ones, matching the precedence the SPA applied inline.
func (l LegacyCompany) Normalize() (Company, error) {
	id := strings.TrimSpace(l.ID)
	name := strings.TrimSpace(l.Name)
	if id == "" || name == "" {
		return Company{}, ErrMissingIdentity
	}

	c := Company{
		ID:        id,
		Name:      name,
		EditionID: firstNonEmpty(l.EditionID, l.EditionIDSnek),
	}

	switch {
	case l.Type != nil && l.Type.IsChannelPartner != nil:
		c.IsChannelPartner = *l.Type.IsChannelPartner
	case l.IsChannelPartner != nil:
		c.IsChannelPartner = *l.IsChannelPartner
	case l.IsChannelPartnerSnek != nil:
		c.IsChannelPartner = *l.IsChannelPartnerSnek
	}

	// The old schema stored the owning channel under either a parent-company
	// or a channel key depending on the handler that wrote it.
	c.ParentCompanyID = firstNonEmpty(l.ParentCompanyID, l.ParentCompanyIDSnek, l.ChannelID, l.ChannelIDSnek)

	// Channels never carry a parent; legacy rows that claim both are
	// reconciled in favour of the channel flag.
	if c.IsChannelPartner {
		c.ParentCompanyID = ""
	}

	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
