package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emstack/ems-api/internal/models"
	"github.com/emstack/ems-api/internal/service"
	appErrors "github.com/emstack/ems-api/pkg/errors"
	"github.com/emstack/ems-api/pkg/response"
)

// PayrollHandler exposes payroll endpoints.
type PayrollHandler struct {
	payrolls *service.PayrollService
}

// NewPayrollHandler constructs PayrollHandler.
func NewPayrollHandler(payrolls *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrolls: payrolls}
}

// Create godoc
// @Summary Create payroll record
// @Tags Payroll
// @Accept json
// @Produce json
// @Param payload body service.CreatePayrollRequest true "Payroll payload"
// @Success 201 {object} response.Envelope
// @Router /payrolls [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	var req service.CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payroll, err := h.payrolls.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payroll)
}

// Get godoc
// @Summary Get payroll record
// @Tags Payroll
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 200 {object} response.Envelope
// @Router /payrolls/{id} [get]
func (h *PayrollHandler) Get(c *gin.Context) {
	payroll, err := h.payrolls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payroll, nil)
}

// ListByEmployee godoc
// @Summary List payrolls for an employee
// @Tags Payroll
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /payrolls/employee/{id} [get]
func (h *PayrollHandler) ListByEmployee(c *gin.Context) {
	payrolls, err := h.payrolls.ListByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payrolls, nil)
}

// ListByPeriod godoc
// @Summary List payrolls contained in a period
// @Tags Payroll
// @Produce json
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /payrolls [get]
func (h *PayrollHandler) ListByPeriod(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payrolls, err := h.payrolls.ListByPeriod(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payrolls, nil)
}

type updatePayrollStatusRequest struct {
	Status      models.PayrollStatus `json:"status" binding:"required"`
	PaymentDate *time.Time           `json:"payment_date"`
}

// UpdateStatus godoc
// @Summary Update payroll payment status
// @Tags Payroll
// @Accept json
// @Produce json
// @Param id path string true "Payroll ID"
// @Param payload body updatePayrollStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /payrolls/{id}/status [patch]
func (h *PayrollHandler) UpdateStatus(c *gin.Context) {
	var req updatePayrollStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payroll, err := h.payrolls.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payroll, nil)
}

// Delete godoc
// @Summary Delete payroll record
// @Tags Payroll
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 204
// @Router /payrolls/{id} [delete]
func (h *PayrollHandler) Delete(c *gin.Context) {
	if err := h.payrolls.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summary godoc
// @Summary Payroll summary over a period
// @Tags Payroll
// @Produce json
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /payrolls/summary [get]
func (h *PayrollHandler) Summary(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.payrolls.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// DepartmentSummary godoc
// @Summary Payroll summary for a department
// @Tags Payroll
// @Produce json
// @Param department query string true "Department name"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /payrolls/summary/department [get]
func (h *PayrollHandler) DepartmentSummary(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.payrolls.DepartmentSummary(c.Request.Context(), c.Query("department"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
