package loyalty

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Handler wires HTTP endpoints for the client loyalty portal.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw}
}

// MountRoutes registers client routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.RoleClient)).Get("/me", h.me)
	r.With(h.rbac.Require(rbac.RoleClient)).Get("/me/purchases", h.myPurchases)
	r.With(h.rbac.Require(rbac.RoleCashier)).Get("/qr/{qr}", h.byQRCode)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	client, err := h.service.GetOrCreateByUser(r.Context(), sess.User())
	if err != nil {
		h.logger.Error("provision client profile", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *Handler) myPurchases(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	client, err := h.service.GetOrCreateByUser(r.Context(), sess.User())
	if err != nil {
		h.logger.Error("provision client profile", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	purchases, err := h.service.History(r.Context(), client.ID)
	if err != nil {
		h.logger.Error("purchase history", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	if purchases == nil {
		purchases = []Purchase{}
	}
	httpx.JSON(w, http.StatusOK, purchases)
}

func (h *Handler) byQRCode(w http.ResponseWriter, r *http.Request) {
	client, err := h.service.ByQRCode(r.Context(), chi.URLParam(r, "qr"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Introuvable", "Client introuvable.")
			return
		}
		h.logger.Error("client by qr", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}
