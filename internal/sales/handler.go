package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caddie-pos/caddie-pos/internal/inventory"
	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Handler wires HTTP endpoints for checkouts.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw, validator: validator.New()}
}

// MountRoutes registers sales routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.RoleCashier)).Post("/", h.completeSale)
	r.With(h.rbac.Require(rbac.RoleCashier, rbac.RoleSupervisor)).Get("/", h.listSales)
	r.With(h.rbac.Require(rbac.RoleCashier, rbac.RoleSupervisor)).Get("/{id}", h.getSale)
}

type saleResponse struct {
	Sale
	Items []SaleItem `json:"items"`
}

func (h *Handler) completeSale(w http.ResponseWriter, r *http.Request) {
	var req CompleteSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}

	sess := shared.SessionFromContext(r.Context())
	sale, items, err := h.service.CompleteSale(r.Context(), sess.User(), req)
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		switch {
		case errors.Is(err, ErrEmptyCart):
			httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		case errors.As(err, &insufficient):
			httpx.Problem(w, http.StatusBadRequest, "Stock insuffisant",
				"Stock insuffisant pour le produit "+strconv.FormatInt(insufficient.ProductID, 10))
		case errors.Is(err, shared.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Introuvable", err.Error())
		default:
			h.logger.Error("complete sale", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, saleResponse{Sale: *sale, Items: items})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	sales, err := h.service.ListSales(r.Context(), limit)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	if sales == nil {
		sales = []Sale{}
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	sale, items, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Introuvable", "Vente introuvable.")
			return
		}
		h.logger.Error("get sale", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, saleResponse{Sale: sale, Items: items})
}
