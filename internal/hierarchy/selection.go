package hierarchy

// Selection is a partially filled Edition/Channel/Company/Role choice.
// Downstream fields are reset whenever an upstream field changes; a stale
// downstream value referencing an out-of-scope entity is an invariant
// violation, so all mutation must go through the setters.
type Selection struct {
	EditionID string `json:"edition_id"`
	ChannelID string `json:"channel_id"`
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
}

// NewSelection returns an empty selection with all sentinels in place.
func NewSelection() Selection {
	return Selection{
		EditionID: NotSelected,
		ChannelID: ChannelNone,
		CompanyID: NotSelected,
		Role:      RoleUser,
	}
}

// SetEdition changes the edition and resets channel, company and role.
func (s *Selection) SetEdition(id string) {
	s.EditionID = id
	s.ChannelID = ChannelNone
	s.CompanyID = NotSelected
	s.Role = RoleUser
}

// SetChannel changes the channel and resets company and role.
func (s *Selection) SetChannel(id string) {
	s.ChannelID = id
	s.CompanyID = NotSelected
	s.Role = RoleUser
}

// SetCompany changes the company and resets the role.
func (s *Selection) SetCompany(id string) {
	s.CompanyID = id
	s.Role = RoleUser
}

// SetRole changes the role only.
func (s *Selection) SetRole(r Role) {
	s.Role = r
}

// HasEdition reports whether an edition has been chosen.
func (s Selection) HasEdition() bool {
	return s.EditionID != "" && s.EditionID != NotSelected
}

// HasChannel reports whether a channel has been chosen.
func (s Selection) HasChannel() bool {
	return s.ChannelID != "" && s.ChannelID != ChannelNone
}

// HasCompany reports whether a company has been chosen.
func (s Selection) HasCompany() bool {
	return s.CompanyID != "" && s.CompanyID != NotSelected
}
