package assignments

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetyid/safetyid-console/internal/companies"
	"github.com/safetyid/safetyid-console/internal/editions"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

func testBuilder() *Builder {
	b := NewBuilder()
	n := 0
	b.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return b
}

func testCatalogs() Catalogs {
	return Catalogs{
		Editions: []editions.Edition{{ID: "e1", Name: "North Region"}},
		Companies: []companies.Company{
			{ID: "c1", Name: "ChannelCo", EditionID: "e1", IsChannelPartner: true},
			{ID: "c2", Name: "SubCo", EditionID: "e1", ParentCompanyID: "c1"},
		},
	}
}

func TestAddResolvesNamesAtCommitTime(t *testing.T) {
	b := testBuilder()
	sel := hierarchy.NewSelection()
	sel.SetEdition("e1")
	sel.SetChannel("c1")
	sel.SetCompany("c2")
	sel.SetRole(hierarchy.RoleCompanyAdmin)

	a, err := b.AddOrUpdate(sel, "", testCatalogs())
	require.NoError(t, err)

	assert.Equal(t, "North Region", a.EditionName)
	assert.Equal(t, "ChannelCo", a.ChannelName)
	assert.Equal(t, "SubCo", a.CompanyName)
	assert.Equal(t, StatusActive, a.Status)
	assert.NotEmpty(t, a.ID)
}

func TestAddRequiresEditionAndRole(t *testing.T) {
	b := testBuilder()

	_, err := b.AddOrUpdate(hierarchy.NewSelection(), "", testCatalogs())
	assert.ErrorIs(t, err, httpx.ErrValidation)

	sel := hierarchy.NewSelection()
	sel.SetEdition("e1")
	sel.Role = ""
	_, err = b.AddOrUpdate(sel, "", testCatalogs())
	assert.ErrorIs(t, err, httpx.ErrValidation)

	sel.SetRole(hierarchy.RoleSuperAdmin)
	_, err = b.AddOrUpdate(sel, "", testCatalogs())
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdatePreservesID(t *testing.T) {
	b := testBuilder()
	sel := hierarchy.NewSelection()
	sel.SetEdition("e1")
	sel.SetRole(hierarchy.RoleEditionAdmin)
	original, err := b.AddOrUpdate(sel, "", testCatalogs())
	require.NoError(t, err)

	sel.SetCompany("c2")
	sel.SetRole(hierarchy.RoleUser)
	updated, err := b.AddOrUpdate(sel, original.ID, testCatalogs())
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	require.Len(t, b.List(), 1)
	assert.Equal(t, hierarchy.RoleUser, b.List()[0].Role)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	b := testBuilder()
	sel := hierarchy.NewSelection()
	sel.SetEdition("e1")
	sel.SetRole(hierarchy.RoleEditionAdmin)
	_, err := b.AddOrUpdate(sel, "missing", testCatalogs())
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestToggleSuperAdminRoundTrip(t *testing.T) {
	b := testBuilder()
	sel := hierarchy.NewSelection()
	sel.SetEdition("e1")
	sel.SetRole(hierarchy.RoleEditionAdmin)
	_, err := b.AddOrUpdate(sel, "", testCatalogs())
	require.NoError(t, err)
	before := b.List()

	b.ToggleSuperAdmin(true)
	assert.True(t, b.SuperAdmin())
	require.Len(t, b.List(), 2)

	global := b.List()[1]
	assert.Equal(t, hierarchy.ScopeGlobal, global.EditionID)
	assert.Equal(t, "Global Access", global.EditionName)
	assert.Equal(t, hierarchy.RoleSuperAdmin, global.Role)
	assert.True(t, global.IsGlobal())

	// Toggling on twice never duplicates the entry.
	b.ToggleSuperAdmin(true)
	assert.Len(t, b.List(), 2)

	b.ToggleSuperAdmin(false)
	assert.False(t, b.SuperAdmin())
	assert.Equal(t, before, b.List())
}

func TestRemoveSuperAdminClearsToggleState(t *testing.T) {
	b := testBuilder()
	b.ToggleSuperAdmin(true)
	require.True(t, b.SuperAdmin())

	b.Remove(b.List()[0].ID)
	assert.False(t, b.SuperAdmin())
	assert.Empty(t, b.List())
}

func TestHeadlinePriority(t *testing.T) {
	assert.Equal(t, "SubCo", Headline(Assignment{EditionName: "North Region", ChannelName: "ChannelCo", CompanyName: "SubCo"}))
	assert.Equal(t, "ChannelCo", Headline(Assignment{EditionName: "North Region", ChannelName: "ChannelCo"}))
	assert.Equal(t, "North Region", Headline(Assignment{EditionID: "e1", EditionName: "North Region"}))
	assert.Equal(t, "Global Access", Headline(Assignment{EditionID: hierarchy.ScopeGlobal, EditionName: "Global Access"}))
	assert.Equal(t, "Global Access", Headline(Assignment{}))
}

func TestHierarchyCaption(t *testing.T) {
	assert.Equal(t, "Global → All Systems", HierarchyCaption(hierarchy.RoleSuperAdmin, false))
	assert.Equal(t, "Edition → All Channels and Companies", HierarchyCaption(hierarchy.RoleEditionAdmin, false))
	assert.Equal(t, "Edition → Channel → All Companies", HierarchyCaption(hierarchy.RoleChannelAdmin, true))
	assert.Equal(t, "Edition → Channel → Company → All Users", HierarchyCaption(hierarchy.RoleCompanyAdmin, true))
	assert.Equal(t, "Edition → Company → All Users", HierarchyCaption(hierarchy.RoleCompanyAdmin, false))
	assert.Equal(t, "Edition → Channel → Company → Your Profile", HierarchyCaption(hierarchy.RoleUser, true))
	assert.Equal(t, "Edition → Company → Your Profile", HierarchyCaption(hierarchy.RoleUser, false))
	assert.Equal(t, "", HierarchyCaption(hierarchy.Role("other"), false))
}
