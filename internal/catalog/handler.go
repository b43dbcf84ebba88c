package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Handler wires HTTP endpoints for products and suppliers.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		rbac:      mw,
		validator: validator.New(),
	}
}

// MountRoutes registers catalog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleCashier, rbac.RoleSupervisor)).Get("/", h.listProducts)
		r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleCashier, rbac.RoleSupervisor)).Get("/{id}", h.getProduct)
		r.With(h.rbac.Require(rbac.RoleStockManager)).Post("/", h.createProduct)
		r.With(h.rbac.Require(rbac.RoleStockManager)).Put("/{id}", h.updateProduct)
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleSupervisor)).Get("/", h.listSuppliers)
		r.With(h.rbac.Require(rbac.RoleStockManager, rbac.RoleSupervisor)).Get("/{id}", h.getSupplier)
		r.With(h.rbac.Require(rbac.RoleStockManager)).Post("/", h.createSupplier)
	})
}

type productRequest struct {
	Name                string `json:"name" validate:"required"`
	Category            string `json:"category" validate:"required"`
	Description         string `json:"description"`
	StockAlertThreshold int    `json:"stockAlertThreshold" validate:"gte=0"`
}

type supplierRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	products, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get product")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	product, err := h.service.CreateProduct(r.Context(), Product{
		Name:                req.Name,
		Category:            req.Category,
		Description:         req.Description,
		StockAlertThreshold: req.StockAlertThreshold,
	})
	if err != nil {
		h.respondServiceError(w, err, "create product")
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	err = h.service.UpdateProduct(r.Context(), id, Product{
		Name:                req.Name,
		Category:            req.Category,
		Description:         req.Description,
		StockAlertThreshold: req.StockAlertThreshold,
	})
	if err != nil {
		h.respondServiceError(w, err, "update product")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	supplier, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get supplier")
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	supplier, err := h.service.CreateSupplier(r.Context(), Supplier{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		h.respondServiceError(w, err, "create supplier")
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Introuvable", "Ressource introuvable.")
	case errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidSupplier):
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
