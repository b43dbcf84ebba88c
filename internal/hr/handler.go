package hr

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

// Handler exposes the HR endpoints, all gated to the hr role.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		rbac:      mw,
		validator: validator.New(),
	}
}

// MountRoutes registers HR routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.Require(rbac.RoleHR))

	r.Get("/employees", h.listEmployees)
	r.Get("/employees/{id}", h.getEmployee)
	r.Post("/employees", h.createEmployee)
	r.Patch("/employees/{id}/status", h.setEmployeeStatus)

	r.Get("/work-hours", h.listWorkHours)
	r.Post("/work-hours", h.createWorkHour)

	r.Get("/leave-requests", h.listLeaveRequests)
	r.Post("/leave-requests", h.createLeaveRequest)
	r.Patch("/leave-requests/{id}", h.reviewLeaveRequest)
}

type employeeRequest struct {
	UserID     int64   `json:"userId" validate:"required,gt=0"`
	HourlyRate float64 `json:"hourlyRate" validate:"gte=0"`
	HireDate   string  `json:"hireDate"`
}

type employeeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type workHourRequest struct {
	EmployeeID  int64   `json:"employeeId" validate:"required,gt=0"`
	WorkDate    string  `json:"workDate" validate:"required"`
	HoursWorked float64 `json:"hoursWorked" validate:"required,gt=0"`
}

type leaveRequestPayload struct {
	EmployeeID  int64  `json:"employeeId" validate:"required,gt=0"`
	RequestType string `json:"requestType" validate:"required,oneof=vacation sick_leave"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	Reason      string `json:"reason"`
}

type leaveReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, employees)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	employee, err := h.service.GetEmployee(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get employee")
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	var hireDate time.Time
	if req.HireDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.HireDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Date d'embauche invalide.")
			return
		}
		hireDate = parsed
	}
	employee, err := h.service.CreateEmployee(r.Context(), Employee{
		UserID:     req.UserID,
		HourlyRate: req.HourlyRate,
		HireDate:   hireDate,
	})
	if err != nil {
		h.respondServiceError(w, err, "create employee")
		return
	}
	httpx.JSON(w, http.StatusCreated, employee)
}

func (h *Handler) setEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	var req employeeStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	if err := h.service.SetEmployeeStatus(r.Context(), id, EmployeeStatus(req.Status)); err != nil {
		h.respondServiceError(w, err, "set employee status")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listWorkHours(w http.ResponseWriter, r *http.Request) {
	filters := WorkHourFilters{}
	q := r.URL.Query()
	if raw := q.Get("employeeId"); raw != "" {
		filters.EmployeeID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := q.Get("month"); raw != "" {
		filters.Month, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("year"); raw != "" {
		filters.Year, _ = strconv.Atoi(raw)
	}
	hours, err := h.service.ListWorkHours(r.Context(), filters)
	if err != nil {
		h.logger.Error("list work hours", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, hours)
}

func (h *Handler) createWorkHour(w http.ResponseWriter, r *http.Request) {
	var req workHourRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	workDate, err := time.Parse(time.RFC3339, req.WorkDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Date de travail invalide.")
		return
	}
	wh, err := h.service.RecordWorkHours(r.Context(), req.EmployeeID, workDate, req.HoursWorked)
	if err != nil {
		h.respondServiceError(w, err, "create work hour")
		return
	}
	httpx.JSON(w, http.StatusCreated, wh)
}

func (h *Handler) listLeaveRequests(w http.ResponseWriter, r *http.Request) {
	status := LeaveStatus(r.URL.Query().Get("status"))
	requests, err := h.service.ListLeaveRequests(r.Context(), status)
	if err != nil {
		h.logger.Error("list leave requests", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
		return
	}
	httpx.JSON(w, http.StatusOK, requests)
}

func (h *Handler) createLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req leaveRequestPayload
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Date de début invalide.")
		return
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Date de fin invalide.")
		return
	}
	lr, err := h.service.SubmitLeaveRequest(r.Context(), LeaveRequest{
		EmployeeID:  req.EmployeeID,
		RequestType: LeaveType(req.RequestType),
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
	})
	if err != nil {
		h.respondServiceError(w, err, "create leave request")
		return
	}
	httpx.JSON(w, http.StatusCreated, lr)
}

func (h *Handler) reviewLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Identifiant invalide.")
		return
	}
	var req leaveReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Requête invalide", "Corps JSON attendu.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
		return
	}
	lr, err := h.service.ReviewLeaveRequest(r.Context(), id, LeaveStatus(req.Status))
	if err != nil {
		h.respondServiceError(w, err, "review leave request")
		return
	}
	httpx.JSON(w, http.StatusOK, lr)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Introuvable", "Ressource introuvable.")
	case errors.Is(err, ErrInvalidRecord):
		httpx.Problem(w, http.StatusBadRequest, "Validation échouée", err.Error())
	case errors.Is(err, ErrEmployeeExists), errors.Is(err, ErrLeaveAlreadyReviewed):
		httpx.Problem(w, http.StatusConflict, "Conflit", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Erreur interne", "")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
