package alerts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Handler wires HTTP endpoints for stock alerts.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw}
}

// MountRoutes registers alert routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleSupervisor)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.RoleStockManager)).Patch("/{id}", h.resolve)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := Filters{
		Status: Status(r.URL.Query().Get("status")),
		Type:   Type(r.URL.Query().Get("type")),
	}
	alerts, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list alerts", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, alerts)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	alert, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Introuvable", "Alerte active introuvable.")
			return
		}
		h.logger.Error("resolve alert", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, alert)
}
