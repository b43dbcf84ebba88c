package finance

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
)

// Handler wires HTTP endpoints for the financial ledger.
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

// MountRoutes registers finance routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.RoleSupervisor)).Get("/records", h.list)
	r.With(h.rbac.Require(rbac.RoleSupervisor)).Post("/records", h.create)
	r.With(h.rbac.Require(rbac.RoleSupervisor)).Get("/summary", h.summary)
}

type createRecordRequest struct {
	RecordType  string  `json:"recordType" validate:"required,oneof=investment revenue expense salary"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description"`
	RecordDate  string  `json:"recordDate"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), RecordType(r.URL.Query().Get("type")))
	if err != nil {
		if errors.Is(err, ErrInvalidRecord) {
			httpx.Problem(w, http.StatusBadRequest, "Requête invalide", err.Error())
			return
		}
		h.logger.Error("list financial records", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	var date time.Time
	if req.RecordDate != "" {
		var err error
		date, err = time.Parse(time.RFC3339, req.RecordDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation échouée", "recordDate doit être au format RFC 3339.")
			return
		}
	}
	record, err := h.service.Append(r.Context(), RecordType(req.RecordType), req.Amount, req.Description, date)
	if err != nil {
		if errors.Is(err, ErrInvalidRecord) {
			httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
			return
		}
		h.logger.Error("append financial record", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context())
	if err != nil {
		h.logger.Error("summarize ledger", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
