package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Handler wires HTTP endpoints for lot management.
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

// MountRoutes registers lot routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleCashier, rbac.RoleSupervisor)).Get("/", h.listLots)
	r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleCashier, rbac.RoleSupervisor)).Get("/{id}", h.getLot)
	r.With(h.rbac.Require(rbac.RoleStockManager)).Post("/", h.createLot)
	r.With(h.rbac.Require(rbac.RoleStockManager)).Post("/sweep", h.sweepExpired)
}

type createLotRequest struct {
	ProductID       int64   `json:"productId" validate:"required,gt=0"`
	SupplierID      int64   `json:"supplierId" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	InitialQuantity int     `json:"initialQuantity" validate:"required,gt=0"`
	EntryDate       string  `json:"entryDate"`
	ExpirationDate  string  `json:"expirationDate" validate:"required"`
}

func (h *Handler) listLots(w http.ResponseWriter, r *http.Request) {
	filters := LotFilters{}
	if raw := r.URL.Query().Get("productId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "productId invalide.")
			return
		}
		filters.ProductID = id
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filters.Status = LotStatus(raw)
	}
	lots, err := h.service.ListLots(r.Context(), filters)
	if err != nil {
		h.logger.Error("list lots", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, lots)
}

func (h *Handler) getLot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	lot, err := h.service.GetLot(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Introuvable", "Lot introuvable.")
			return
		}
		h.logger.Error("get lot", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, lot)
}

func (h *Handler) createLot(w http.ResponseWriter, r *http.Request) {
	var req createLotRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}

	expiration, err := time.Parse(time.RFC3339, req.ExpirationDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", "expirationDate doit être au format RFC 3339.")
		return
	}
	var entry time.Time
	if req.EntryDate != "" {
		entry, err = time.Parse(time.RFC3339, req.EntryDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation échouée", "entryDate doit être au format RFC 3339.")
			return
		}
	}

	lot, err := h.service.CreateLot(r.Context(), CreateLotInput{
		ProductID:       req.ProductID,
		SupplierID:      req.SupplierID,
		UnitPrice:       req.UnitPrice,
		InitialQuantity: req.InitialQuantity,
		EntryDate:       entry,
		ExpirationDate:  expiration,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidLot):
			httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		case errors.Is(err, shared.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Introuvable", "Produit ou fournisseur introuvable.")
		default:
			h.logger.Error("create lot", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, lot)
}

func (h *Handler) sweepExpired(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.SweepExpired(r.Context())
	if err != nil {
		h.logger.Error("sweep expired lots", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"expired": count})
}
