package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdvancedSalaryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type advancedSalaryHandlerImpl struct {
	advancedSalaryService advancedsalary.AdvancedSalaryService
}

func NewAdvancedSalaryHandler(advancedSalaryService advancedsalary.AdvancedSalaryService) AdvancedSalaryHandler {
	return &advancedSalaryHandlerImpl{
		advancedSalaryService: advancedSalaryService,
	}
}

func (h *advancedSalaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	filter := advancedsalary.AdvancedSalaryFilter{
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
		Page:       page,
		Limit:      limit,
	}

	result, err := h.advancedSalaryService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advancedSalaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.advancedSalaryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advancedSalaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req advancedsalary.CreateAdvancedSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.advancedSalaryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advanced salary request created successfully", result)
}

func (h *advancedSalaryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req advancedsalary.UpdateAdvancedSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.advancedSalaryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advanced salary request updated successfully", result)
}

func (h *advancedSalaryHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req advancedsalary.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.advancedSalaryService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advanced salary request approved", result)
}

func (h *advancedSalaryHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req advancedsalary.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.advancedSalaryService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advanced salary request rejected", result)
}

func (h *advancedSalaryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.advancedSalaryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advanced salary request deleted successfully", nil)
}
