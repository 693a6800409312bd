package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Runs
	BuildRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ProcessRun(w http.ResponseWriter, r *http.Request)
	PayRun(w http.ResponseWriter, r *http.Request)
	DeleteRun(w http.ResponseWriter, r *http.Request)

	// Items
	GetItem(w http.ResponseWriter, r *http.Request)
	RecalculateItem(w http.ResponseWriter, r *http.Request)
	UpdateItemStatus(w http.ResponseWriter, r *http.Request)
	DeleteItem(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) BuildRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.BuildPayrollRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("BuildRun decode error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.BuildPayrollRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run built successfully", result)
}

func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.payrollService.ListRuns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, runs, &response.Meta{TotalItems: int64(len(runs))})
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.payrollService.DeriveRunView(r.Context(), chi.URLParam(r, "periodKey"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, run)
}

func (h *payrollHandlerImpl) ProcessRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.payrollService.ProcessRun(r.Context(), chi.URLParam(r, "periodKey"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run processed", run)
}

func (h *payrollHandlerImpl) PayRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.payrollService.PayRun(r.Context(), chi.URLParam(r, "periodKey"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run marked as paid", run)
}

func (h *payrollHandlerImpl) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayrollRun(r.Context(), chi.URLParam(r, "periodKey")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run deleted", nil)
}

// ========== ITEMS ==========

func (h *payrollHandlerImpl) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.payrollService.GetPayrollItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, item)
}

func (h *payrollHandlerImpl) RecalculateItem(w http.ResponseWriter, r *http.Request) {
	var req payroll.RecalculateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecalculateItem decode error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ItemID = chi.URLParam(r, "id")

	result, err := h.payrollService.RecalculateItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll item recalculated", result)
}

func (h *payrollHandlerImpl) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ItemID = chi.URLParam(r, "id")

	item, err := h.payrollService.UpdateItemStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, item)
}

func (h *payrollHandlerImpl) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayrollItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll item deleted", nil)
}
