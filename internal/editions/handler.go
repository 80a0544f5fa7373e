package editions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safetyid/safetyid-console/internal/auth"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Handler manages edition endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers edition routes. Mutations are super-admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(hierarchy.RoleSuperAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.rename)
		r.Delete("/{id}", h.delete)
	})
}

type editionForm struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list editions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Edition{}
	}
	httpx.Wrapped(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	edition, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, edition)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form editionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	created, err := h.service.Create(r.Context(), form.Name)
	if err != nil {
		h.logger.Error("create edition failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusCreated, created)
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	var form editionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	renamed, err := h.service.Rename(r.Context(), chi.URLParam(r, "id"), form.Name)
	if err != nil {
		h.logger.Error("rename edition failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, renamed)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrInUse) {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		h.logger.Error("delete edition failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true})
}
