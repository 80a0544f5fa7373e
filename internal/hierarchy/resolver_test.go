package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Catalog used across the resolver tests: one edition holding a channel
// partner with a subsidiary, plus a standalone company.
func testCatalog() []CompanyRef {
	return []CompanyRef{
		{ID: "c1", EditionID: "e1", IsChannelPartner: true},
		{ID: "c2", EditionID: "e1", ParentCompanyID: "c1"},
		{ID: "c3", EditionID: "e1"},
	}
}

func TestChannelsForEdition(t *testing.T) {
	channels := ChannelsForEdition("e1", testCatalog())
	require.Len(t, channels, 1)
	assert.Equal(t, "c1", channels[0].ID)

	assert.Empty(t, ChannelsForEdition("e2", testCatalog()))
	assert.Empty(t, ChannelsForEdition("e1", nil))
}

func TestCompaniesForChannel(t *testing.T) {
	t.Run("under a channel", func(t *testing.T) {
		under := CompaniesForChannel("c1", testCatalog())
		require.Len(t, under, 1)
		assert.Equal(t, "c2", under[0].ID)
	})

	t.Run("none returns parentless companies", func(t *testing.T) {
		direct := CompaniesForChannel(ChannelNone, testCatalog())
		require.Len(t, direct, 1)
		assert.Equal(t, "c3", direct[0].ID)
	})

	t.Run("channels never appear as companies", func(t *testing.T) {
		for _, channelID := range []string{"c1", ChannelNone} {
			for _, c := range CompaniesForChannel(channelID, testCatalog()) {
				assert.False(t, c.IsChannelPartner)
			}
		}
	})

	t.Run("empty catalog yields empty result", func(t *testing.T) {
		assert.Empty(t, CompaniesForChannel("c1", nil))
	})
}

func TestAvailableRoles(t *testing.T) {
	sel := NewSelection()
	assert.Empty(t, AvailableRoles(sel))

	sel.SetEdition("e1")
	assert.Equal(t, []Role{RoleEditionAdmin}, AvailableRoles(sel))

	sel.SetChannel("c1")
	assert.Equal(t, []Role{RoleEditionAdmin, RoleChannelAdmin}, AvailableRoles(sel))

	sel.SetCompany("c2")
	assert.Equal(t, []Role{RoleEditionAdmin, RoleChannelAdmin, RoleCompanyAdmin, RoleUser}, AvailableRoles(sel))
}

func TestAvailableRolesWithoutChannel(t *testing.T) {
	sel := NewSelection()
	sel.SetEdition("e1")
	sel.SetCompany("c3")
	assert.Equal(t, []Role{RoleEditionAdmin, RoleCompanyAdmin, RoleUser}, AvailableRoles(sel))
}

func TestAvailableRolesNeverSuperAdmin(t *testing.T) {
	sel := NewSelection()
	sel.SetEdition("e1")
	sel.SetChannel("c1")
	sel.SetCompany("c2")
	for _, role := range AvailableRoles(sel) {
		assert.NotEqual(t, RoleSuperAdmin, role)
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleEditionAdmin, RoleChannelAdmin, RoleCompanyAdmin, RoleUser} {
		assert.True(t, role.Valid())
	}
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}
