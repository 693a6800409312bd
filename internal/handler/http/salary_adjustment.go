package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryAdjustmentHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type salaryAdjustmentHandlerImpl struct {
	adjustmentService adjustment.SalaryAdjustmentService
}

func NewSalaryAdjustmentHandler(adjustmentService adjustment.SalaryAdjustmentService) SalaryAdjustmentHandler {
	return &salaryAdjustmentHandlerImpl{adjustmentService: adjustmentService}
}

func (h *salaryAdjustmentHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req adjustment.SubmitSalaryAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit salary adjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RequestedBy = &caller.UserID

	result, err := h.adjustmentService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary adjustment submitted", result)
}

func (h *salaryAdjustmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter adjustment.SalaryAdjustmentFilter
	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	result, err := h.adjustmentService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

func (h *salaryAdjustmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.adjustmentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryAdjustmentHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req adjustment.DecideSalaryAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decide salary adjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.DecidedBy = caller.UserID

	result, err := h.adjustmentService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary adjustment "+string(result.Adjustment.Status), result)
}
