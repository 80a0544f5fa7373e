// Package assignments maintains the in-memory list of role assignments for a
// user being created or edited, including the mutually exclusive Super Admin
// toggle.
package assignments

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/safetyid/safetyid-console/internal/companies"
	"github.com/safetyid/safetyid-console/internal/editions"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// StatusActive is the default status for newly built assignments.
const StatusActive = "active"

// Assignment is one edition/channel/company/role tuple held by a user.
// Display names are denormalized at commit time so renamed entities are
// reflected when the list is rebuilt.
type Assignment struct {
	ID          string         `json:"id"`
	EditionID   string         `json:"edition_id"`
	EditionName string         `json:"edition_name"`
	ChannelID   string         `json:"channel_id"`
	ChannelName string         `json:"channel_name"`
	CompanyID   string         `json:"company_id"`
	CompanyName string         `json:"company_name"`
	Role        hierarchy.Role `json:"role"`
	Status      string         `json:"status"`
}

// IsGlobal reports whether this is the synthetic super-admin assignment.
func (a Assignment) IsGlobal() bool {
	return a.Role == hierarchy.RoleSuperAdmin
}

// Catalogs bundles the entity catalogs the builder resolves names against.
type Catalogs struct {
	Editions  []editions.Edition
	Companies []companies.Company
}

func (c Catalogs) editionName(id string) string {
	for _, e := range c.Editions {
		if e.ID == id {
			return e.Name
		}
	}
	return ""
}

func (c Catalogs) companyName(id string) string {
	for _, company := range c.Companies {
		if company.ID == id {
			return company.Name
		}
	}
	return ""
}

// Builder accumulates role assignments. It is owned by a single request flow
// and is not safe for concurrent use.
type Builder struct {
	list  []Assignment
	newID func() string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{newID: uuid.NewString}
}

// List returns a copy of the accumulated assignments in insertion order.
func (b *Builder) List() []Assignment {
	out := make([]Assignment, len(b.list))
	copy(out, b.list)
	return out
}

// SuperAdmin reports whether the list currently holds the super-admin
// assignment. The toggle state always mirrors its presence.
func (b *Builder) SuperAdmin() bool {
	for _, a := range b.list {
		if a.IsGlobal() {
			return true
		}
	}
	return false
}

// ToggleSuperAdmin appends the synthetic global assignment when checked and
// not already present, and removes it when unchecked. Toggling on then off is
// an exact round trip for any list that did not already hold one.
func (b *Builder) ToggleSuperAdmin(checked bool) {
	if checked {
		if b.SuperAdmin() {
			return
		}
		b.list = append(b.list, Assignment{
			ID:          b.newID(),
			EditionID:   hierarchy.ScopeGlobal,
			EditionName: "Global Access",
			ChannelID:   hierarchy.ChannelNone,
			CompanyID:   hierarchy.ChannelNone,
			Role:        hierarchy.RoleSuperAdmin,
			Status:      StatusActive,
		})
		return
	}
	kept := b.list[:0]
	for _, a := range b.list {
		if !a.IsGlobal() {
			kept = append(kept, a)
		}
	}
	b.list = kept
}

// AddOrUpdate commits a selection to the list. Display names are resolved
// against the catalogs now, not at selection time. When editingID is set the
// matching assignment is replaced in place with its id preserved; otherwise a
// new assignment is appended.
func (b *Builder) AddOrUpdate(sel hierarchy.Selection, editingID string, cat Catalogs) (Assignment, error) {
	if !sel.HasEdition() {
		return Assignment{}, fmt.Errorf("%w: select an edition before saving the relationship", httpx.ErrValidation)
	}
	if sel.Role == "" {
		return Assignment{}, fmt.Errorf("%w: select a role before saving the relationship", httpx.ErrValidation)
	}
	if !sel.Role.Valid() || sel.Role == hierarchy.RoleSuperAdmin {
		return Assignment{}, fmt.Errorf("%w: role %q cannot be assigned here", httpx.ErrValidation, sel.Role)
	}

	a := Assignment{
		EditionID:   sel.EditionID,
		EditionName: cat.editionName(sel.EditionID),
		ChannelID:   sel.ChannelID,
		CompanyID:   sel.CompanyID,
		Role:        sel.Role,
		Status:      StatusActive,
	}
	if sel.HasChannel() {
		a.ChannelName = cat.companyName(sel.ChannelID)
	}
	if sel.HasCompany() {
		a.CompanyName = cat.companyName(sel.CompanyID)
	}

	if editingID != "" {
		for i := range b.list {
			if b.list[i].ID == editingID {
				a.ID = editingID
				b.list[i] = a
				return a, nil
			}
		}
		return Assignment{}, fmt.Errorf("%w: assignment %s not found", httpx.ErrNotFound, editingID)
	}

	a.ID = b.newID()
	b.list = append(b.list, a)
	return a, nil
}

// Remove deletes the assignment with the given id. Removing the super-admin
// assignment is equivalent to toggling it off.
func (b *Builder) Remove(id string) {
	kept := b.list[:0]
	for _, a := range b.list {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	b.list = kept
}
