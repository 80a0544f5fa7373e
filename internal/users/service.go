package users

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/safetyid/safetyid-console/internal/assignments"
	"github.com/safetyid/safetyid-console/internal/companies"
	"github.com/safetyid/safetyid-console/internal/editions"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// CatalogSource supplies the entity catalogs the aggregate builder resolves
// display names and scopes against.
type CatalogSource interface {
	Editions(ctx context.Context) ([]editions.Edition, error)
	EditionCompanies(ctx context.Context, editionID string) ([]companies.Company, error)
}

// ServiceCatalogs adapts the edition and company services to CatalogSource.
type ServiceCatalogs struct {
	EditionSvc *editions.Service
	CompanySvc *companies.Service
}

// Editions lists all editions.
func (c ServiceCatalogs) Editions(ctx context.Context) ([]editions.Edition, error) {
	return c.EditionSvc.List(ctx)
}

// EditionCompanies lists the companies of one edition.
func (c ServiceCatalogs) EditionCompanies(ctx context.Context, editionID string) ([]companies.Company, error) {
	return c.CompanySvc.ListByEdition(ctx, editionID)
}

// Notifier receives post-creation events; wired to the job queue in main.
type Notifier interface {
	UserCreated(ctx context.Context, userID, email string) error
}

// CreateUserInput carries the personal fields plus the selections accumulated
// in the add/edit modal.
type CreateUserInput struct {
	FirstName  string                `json:"first_name"`
	LastName   string                `json:"last_name"`
	Email      string                `json:"email"`
	Phone      string                `json:"phone"`
	Password   string                `json:"password"`
	SuperAdmin bool                  `json:"super_admin"`
	Selections []hierarchy.Selection `json:"assignments"`
}

// UpdateUserInput carries the mutable personal fields.
type UpdateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
}

// Service handles user business logic, including the two-step aggregate
// creation.
type Service struct {
	repo     RepositoryPort
	catalogs CatalogSource
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds Service instance. notifier may be nil.
func NewService(repo RepositoryPort, catalogs CatalogSource, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, catalogs: catalogs, notifier: notifier, logger: logger}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns a user with its relationship rows.
func (s *Service) GetUser(ctx context.Context, id string) (UserDetail, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return UserDetail{}, err
	}
	user.PasswordHash = ""
	rels, err := s.repo.ListRelationships(ctx, id)
	if err != nil {
		return UserDetail{}, err
	}
	return UserDetail{User: user, Relationships: rels}, nil
}

// UpdateUser rewrites the personal fields.
func (s *Service) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (User, error) {
	if strings.TrimSpace(input.FirstName) == "" {
		return User{}, fmt.Errorf("%w: first name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.LastName) == "" {
		return User{}, fmt.Errorf("%w: last name is required", httpx.ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = assignments.StatusActive
	}
	updated, err := s.repo.UpdateUser(ctx, User{
		ID:        id,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Status:    status,
	})
	if err != nil {
		return User{}, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

// DeleteUser removes a user and its relationships.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

// CreateWithAssignments runs the two-step creation: the user row first, then
// one relationship row per non-global assignment, written concurrently. There
// is no transaction spanning both steps and no rollback; a failed
// relationship leaves every other one in place and is reported in the result
// so callers can retry just the missing rows.
func (s *Service) CreateWithAssignments(ctx context.Context, input CreateUserInput) (CreateResult, error) {
	if err := validateCreateInput(input); err != nil {
		return CreateResult{}, err
	}

	built, err := s.buildAssignments(ctx, input)
	if err != nil {
		return CreateResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResult{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hash),
		Role:         built[0].Role,
		Status:       assignments.StatusActive,
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{User: created}
	result.Created, result.Failed = s.createRelationships(ctx, created.ID, built)

	if s.notifier != nil {
		if err := s.notifier.UserCreated(ctx, created.ID, created.Email); err != nil {
			s.logger.Warn("enqueue user created notification", slog.Any("error", err))
		}
	}
	return result, nil
}

// RetryRelationships re-runs the relationship step for rows that are still
// missing, matched by edition/company/role against what already exists.
func (s *Service) RetryRelationships(ctx context.Context, userID string, input CreateUserInput) (RetryResult, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return RetryResult{}, err
	}
	if len(input.Selections) == 0 && !input.SuperAdmin {
		return RetryResult{}, fmt.Errorf("%w: at least one role assignment is required", httpx.ErrValidation)
	}
	built, err := s.buildAssignments(ctx, input)
	if err != nil {
		return RetryResult{}, err
	}
	existing, err := s.repo.ListRelationships(ctx, userID)
	if err != nil {
		return RetryResult{}, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, rel := range existing {
		present[relKey(rel.EditionID, rel.CompanyID, rel.Role)] = struct{}{}
	}

	var missing []assignments.Assignment
	skipped := 0
	for _, a := range built {
		rel, hasRow, relErr := relationshipFor(a, userID)
		if relErr != nil || !hasRow {
			// Invalid tuples are re-reported by the create pass below;
			// global assignments never have a row to retry.
			if relErr != nil {
				missing = append(missing, a)
			}
			continue
		}
		if _, ok := present[relKey(rel.EditionID, rel.CompanyID, rel.Role)]; ok {
			skipped++
			continue
		}
		missing = append(missing, a)
	}

	createdRes, failedRes := s.createRelationships(ctx, userID, missing)
	return RetryResult{Created: createdRes, Skipped: skipped, Failed: failedRes}, nil
}

// buildAssignments rebuilds the assignment list server side so display names
// resolve against the catalogs at commit time, not at selection time.
func (s *Service) buildAssignments(ctx context.Context, input CreateUserInput) ([]assignments.Assignment, error) {
	editionIDs := make([]string, 0, len(input.Selections))
	seen := make(map[string]struct{})
	for _, sel := range input.Selections {
		if !sel.HasEdition() {
			continue
		}
		if _, ok := seen[sel.EditionID]; ok {
			continue
		}
		seen[sel.EditionID] = struct{}{}
		editionIDs = append(editionIDs, sel.EditionID)
	}
	sort.Strings(editionIDs)

	cat := assignments.Catalogs{}
	if len(editionIDs) > 0 {
		eds, err := s.catalogs.Editions(ctx)
		if err != nil {
			return nil, err
		}
		cat.Editions = eds
		for _, editionID := range editionIDs {
			list, err := s.catalogs.EditionCompanies(ctx, editionID)
			if err != nil {
				return nil, err
			}
			cat.Companies = append(cat.Companies, list...)
		}
	}

	builder := assignments.NewBuilder()
	for i, sel := range input.Selections {
		if _, err := builder.AddOrUpdate(sel, "", cat); err != nil {
			return nil, fmt.Errorf("assignment %d: %w", i+1, err)
		}
	}
	builder.ToggleSuperAdmin(input.SuperAdmin)
	return builder.List(), nil
}

// createRelationships writes one row per assignment concurrently. Failures do
// not cancel the sibling writes and nothing is rolled back.
func (s *Service) createRelationships(ctx context.Context, userID string, list []assignments.Assignment) (created, failed []RelationshipResult) {
	type outcome struct {
		res RelationshipResult
		ok  bool
		row bool
	}
	outcomes := make([]outcome, len(list))

	var g errgroup.Group
	for i, a := range list {
		i, a := i, a
		g.Go(func() error {
			position := i + 1
			rel, hasRow, err := relationshipFor(a, userID)
			if err != nil {
				outcomes[i] = outcome{res: RelationshipResult{
					Position: position,
					Role:     a.Role,
					Error:    fmt.Sprintf("Failed to create relationship %d: %v", position, err),
				}, row: true}
				return nil
			}
			if !hasRow {
				return nil
			}
			saved, err := s.repo.CreateRelationship(ctx, rel)
			if err != nil {
				s.logger.Error("create relationship failed",
					slog.String("user_id", userID),
					slog.Int("position", position),
					slog.Any("error", err))
				outcomes[i] = outcome{res: RelationshipResult{
					Position: position,
					Role:     a.Role,
					Error:    fmt.Sprintf("Failed to create relationship %d: %v", position, err),
				}, row: true}
				return nil
			}
			outcomes[i] = outcome{res: RelationshipResult{
				Position:       position,
				RelationshipID: saved.ID,
				Role:           saved.Role,
			}, ok: true, row: true}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if !o.row {
			continue
		}
		if o.ok {
			created = append(created, o.res)
		} else {
			failed = append(failed, o.res)
		}
	}
	return created, failed
}

// relationshipFor maps an assignment to its persisted row with role-specific
// field omission. Global assignments produce no row at all; the primary role
// on the users row records them.
func relationshipFor(a assignments.Assignment, userID string) (Relationship, bool, error) {
	rel := Relationship{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   a.Role,
		Status: a.Status,
	}
	switch a.Role {
	case hierarchy.RoleSuperAdmin:
		return Relationship{}, false, nil
	case hierarchy.RoleEditionAdmin:
		rel.EditionID = a.EditionID
	case hierarchy.RoleChannelAdmin:
		rel.EditionID = a.EditionID
		if companySelected(a.CompanyID) {
			rel.CompanyID = a.CompanyID
		}
	case hierarchy.RoleCompanyAdmin, hierarchy.RoleUser:
		rel.EditionID = a.EditionID
		if !companySelected(a.CompanyID) {
			return Relationship{}, false, fmt.Errorf("role %s requires a company", a.Role)
		}
		rel.CompanyID = a.CompanyID
	default:
		return Relationship{}, false, fmt.Errorf("unknown role %q", a.Role)
	}
	return rel, true, nil
}

func companySelected(id string) bool {
	return id != "" && id != hierarchy.NotSelected && id != hierarchy.ChannelNone
}

func relKey(editionID, companyID string, role hierarchy.Role) string {
	return editionID + "|" + companyID + "|" + string(role)
}
