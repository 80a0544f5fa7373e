package companies

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safetyid/safetyid-console/internal/auth"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Handler manages company endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers company routes. Mutations require an admin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/edition/{editionID}", h.listByEdition)
	r.Get("/edition/{editionID}/channels", h.listChannels)
	r.Get("/edition/{editionID}/channel/{channelID}", h.listForChannel)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(hierarchy.RoleEditionAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/import", h.importLegacy)
	})
}

type companyForm struct {
	Name             string `json:"name"`
	EditionID        string `json:"edition_id"`
	IsChannelPartner bool   `json:"is_channel_partner"`
	ParentCompanyID  string `json:"parent_company_id"`
}

func (h *Handler) listByEdition(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByEdition(r.Context(), chi.URLParam(r, "editionID"))
	if err != nil {
		h.logger.Error("list companies failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Company{}
	}
	httpx.Wrapped(w, http.StatusOK, list)
}

func (h *Handler) listChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.service.ListChannels(r.Context(), chi.URLParam(r, "editionID"))
	if err != nil {
		h.logger.Error("list channels failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, channels)
}

// listForChannel serves the third dropdown of the cascading selection: the
// companies reachable once a channel (or the "none" sentinel) is picked.
func (h *Handler) listForChannel(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListForChannel(r.Context(), chi.URLParam(r, "editionID"), chi.URLParam(r, "channelID"))
	if err != nil {
		h.logger.Error("list companies for channel failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, company)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form companyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	created, err := h.service.Create(r.Context(), Company{
		Name:             form.Name,
		EditionID:        form.EditionID,
		IsChannelPartner: form.IsChannelPartner,
		ParentCompanyID:  form.ParentCompanyID,
	})
	if err != nil {
		h.logger.Error("create company failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form companyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	updated, err := h.service.Update(r.Context(), Company{
		ID:               chi.URLParam(r, "id"),
		Name:             form.Name,
		IsChannelPartner: form.IsChannelPartner,
		ParentCompanyID:  form.ParentCompanyID,
	})
	if err != nil {
		h.logger.Error("update company failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Wrapped(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete company failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true})
}

type importRequest struct {
	EditionID string          `json:"edition_id"`
	Companies []LegacyCompany `json:"companies"`
}

type importResponse struct {
	Imported []Company `json:"imported"`
	Skipped  int       `json:"skipped"`
}

func (h *Handler) importLegacy(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.EditionID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "edition_id required")
		return
	}
	imported, skipped, err := h.service.Import(r.Context(), req.EditionID, req.Companies)
	if err != nil {
		h.logger.Error("import companies failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if skipped > 0 {
		h.logger.Warn("legacy import skipped malformed records", slog.Int("skipped", skipped))
	}
	if imported == nil {
		imported = []Company{}
	}
	httpx.Wrapped(w, http.StatusOK, importResponse{Imported: imported, Skipped: skipped})
}
