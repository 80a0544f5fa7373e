package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safetyid/safetyid-console/internal/auth"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Handler manages user endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers user routes. Mutations require at least edition-admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/role-options", h.roleOptions)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(hierarchy.RoleEditionAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/relationships/retry", h.retry)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []User{}
	}
	httpx.Wrapped(w, http.StatusOK, list)
}

// roleOptions tells the add-relationship modal which roles the current
// selection state may offer. Setters run in cascade order so partially filled
// query params reset downstream fields the same way the form does.
func (h *Handler) roleOptions(w http.ResponseWriter, r *http.Request) {
	sel := hierarchy.NewSelection()
	q := r.URL.Query()
	if v := q.Get("edition_id"); v != "" {
		sel.SetEdition(v)
	}
	if v := q.Get("channel_id"); v != "" {
		sel.SetChannel(v)
	}
	if v := q.Get("company_id"); v != "" {
		sel.SetCompany(v)
	}
	httpx.Wrapped(w, http.StatusOK, hierarchy.AvailableRoles(sel))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if detail.Relationships == nil {
		detail.Relationships = []Relationship{}
	}
	httpx.Wrapped(w, http.StatusOK, detail)
}

// create runs the two-step aggregate creation. A 201 means the user row
// exists; the body's relationships_failed list tells the caller which
// relationship rows still have to be retried.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateUserInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	result, err := h.service.CreateWithAssignments(r.Context(), input)
	if err != nil {
		h.logger.Error("create user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if len(result.Failed) > 0 {
		h.logger.Warn("user created with failed relationships",
			slog.String("user_id", result.User.ID),
			slog.Int("failed", len(result.Failed)))
	}
	httpx.Wrapped(w, http.StatusCreated, result)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var input UpdateUserInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	updated, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Error("update user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true})
}

func (h *Handler) retry(w http.ResponseWriter, r *http.Request) {
	var input CreateUserInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	result, err := h.service.RetryRelationships(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Error("retry relationships failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, result)
}
