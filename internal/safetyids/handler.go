package safetyids

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safetyid/safetyid-console/internal/auth"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Handler manages safety identifier endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers safety identifier routes. Issuing and revoking
// require at least company-admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Get("/user/{userID}", h.listByUser)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(hierarchy.RoleEditionAdmin, hierarchy.RoleChannelAdmin, hierarchy.RoleCompanyAdmin))
		r.Post("/", h.issue)
		r.Delete("/{id}", h.revoke)
	})
}

type issueForm struct {
	UserID    string `json:"user_id"`
	EditionID string `json:"edition_id"`
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	var form issueForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	issued, err := h.service.Issue(r.Context(), form.UserID, form.EditionID)
	if err != nil {
		h.logger.Error("issue safety id failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusCreated, issued)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sid, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, sid)
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.logger.Error("list safety ids failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []SafetyID{}
	}
	httpx.Wrapped(w, http.StatusOK, list)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.service.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("revoke safety id failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, revoked)
}
