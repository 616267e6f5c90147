package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emstack/ems-api/internal/models"
	"github.com/emstack/ems-api/internal/service"
	appErrors "github.com/emstack/ems-api/pkg/errors"
	"github.com/emstack/ems-api/pkg/response"
)

// LeaveHandler exposes leave endpoints.
type LeaveHandler struct {
	leaves *service.LeaveService
}

// NewLeaveHandler constructs LeaveHandler.
func NewLeaveHandler(leaves *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaves: leaves}
}

// Apply godoc
// @Summary Apply for leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body service.ApplyLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Apply(c *gin.Context) {
	var req service.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	leave, err := h.leaves.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Get godoc
// @Summary Get leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	leave, err := h.leaves.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// List godoc
// @Summary List leaves
// @Tags Leaves
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by leave type"
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	var status *models.LeaveStatus
	if v := c.Query("status"); v != "" {
		s := models.LeaveStatus(v)
		status = &s
	}
	var leaveType *models.LeaveType
	if v := c.Query("type"); v != "" {
		t := models.LeaveType(v)
		leaveType = &t
	}
	leaves, err := h.leaves.List(c.Request.Context(), status, leaveType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// ListByEmployee godoc
// @Summary List leaves for an employee
// @Tags Leaves
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/employee/{id} [get]
func (h *LeaveHandler) ListByEmployee(c *gin.Context) {
	leaves, err := h.leaves.ListByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// Pending godoc
// @Summary List pending leaves
// @Tags Leaves
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leaves/pending [get]
func (h *LeaveHandler) Pending(c *gin.Context) {
	leaves, err := h.leaves.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

type updateLeaveStatusRequest struct {
	Status models.LeaveStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Approve or reject a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave ID"
// @Param payload body updateLeaveStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/status [patch]
func (h *LeaveHandler) UpdateStatus(c *gin.Context) {
	var req updateLeaveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	var approvedBy *string
	if claims := claimsFromContext(c); claims != nil {
		approvedBy = &claims.UserID
	}
	leave, err := h.leaves.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, approvedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Delete godoc
// @Summary Delete leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave ID"
// @Success 204
// @Router /leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	if err := h.leaves.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SummaryByType godoc
// @Summary Leave counts grouped by type
// @Tags Leaves
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /leaves/summary [get]
func (h *LeaveHandler) SummaryByType(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.leaves.SummaryByType(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
