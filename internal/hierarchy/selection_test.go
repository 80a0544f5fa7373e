package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSelectionSentinels(t *testing.T) {
	sel := NewSelection()
	assert.Equal(t, NotSelected, sel.EditionID)
	assert.Equal(t, ChannelNone, sel.ChannelID)
	assert.Equal(t, NotSelected, sel.CompanyID)
	assert.Equal(t, RoleUser, sel.Role)
	assert.False(t, sel.HasEdition())
	assert.False(t, sel.HasChannel())
	assert.False(t, sel.HasCompany())
}

func TestSetEditionResetsDownstream(t *testing.T) {
	sel := NewSelection()
	sel.SetEdition("e1")
	sel.SetChannel("c1")
	sel.SetCompany("c2")
	sel.SetRole(RoleCompanyAdmin)

	sel.SetEdition("e2")

	assert.Equal(t, "e2", sel.EditionID)
	assert.Equal(t, ChannelNone, sel.ChannelID)
	assert.Equal(t, NotSelected, sel.CompanyID)
	assert.Equal(t, RoleUser, sel.Role)
}

func TestSetChannelResetsCompanyAndRole(t *testing.T) {
	sel := NewSelection()
	sel.SetEdition("e1")
	sel.SetChannel("c1")
	sel.SetCompany("c2")
	sel.SetRole(RoleChannelAdmin)

	sel.SetChannel(ChannelNone)

	assert.Equal(t, "e1", sel.EditionID)
	assert.Equal(t, NotSelected, sel.CompanyID)
	assert.Equal(t, RoleUser, sel.Role)
}

func TestSetCompanyResetsRoleOnly(t *testing.T) {
	sel := NewSelection()
	sel.SetEdition("e1")
	sel.SetChannel("c1")
	sel.SetRole(RoleChannelAdmin)

	sel.SetCompany("c2")

	assert.Equal(t, "e1", sel.EditionID)
	assert.Equal(t, "c1", sel.ChannelID)
	assert.Equal(t, "c2", sel.CompanyID)
	assert.Equal(t, RoleUser, sel.Role)
}
