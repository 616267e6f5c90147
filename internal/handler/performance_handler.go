package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emstack/ems-api/internal/models"
	"github.com/emstack/ems-api/internal/service"
	appErrors "github.com/emstack/ems-api/pkg/errors"
	"github.com/emstack/ems-api/pkg/response"
)

// PerformanceHandler exposes performance review endpoints.
type PerformanceHandler struct {
	performance *service.PerformanceService
}

// NewPerformanceHandler constructs PerformanceHandler.
func NewPerformanceHandler(performance *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performance: performance}
}

// Create godoc
// @Summary File a performance review
// @Tags Performance
// @Accept json
// @Produce json
// @Param payload body service.CreateReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Router /reviews [post]
func (h *PerformanceHandler) Create(c *gin.Context) {
	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	review, err := h.performance.CreateReview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// Get godoc
// @Summary Get review
// @Tags Performance
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Envelope
// @Router /reviews/{id} [get]
func (h *PerformanceHandler) Get(c *gin.Context) {
	review, err := h.performance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// ListByEmployee godoc
// @Summary List reviews for an employee
// @Tags Performance
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /reviews/employee/{id} [get]
func (h *PerformanceHandler) ListByEmployee(c *gin.Context) {
	reviews, err := h.performance.ListByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, nil)
}

type updateReviewStatusRequest struct {
	Status models.ReviewStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update review status
// @Tags Performance
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param payload body updateReviewStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /reviews/{id}/status [patch]
func (h *PerformanceHandler) UpdateStatus(c *gin.Context) {
	var req updateReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	review, err := h.performance.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Delete godoc
// @Summary Delete review
// @Tags Performance
// @Produce json
// @Param id path string true "Review ID"
// @Success 204
// @Router /reviews/{id} [delete]
func (h *PerformanceHandler) Delete(c *gin.Context) {
	if err := h.performance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AverageRating godoc
// @Summary Average completed-review rating for an employee
// @Tags Performance
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /reviews/employee/{id}/rating [get]
func (h *PerformanceHandler) AverageRating(c *gin.Context) {
	rating, err := h.performance.AverageRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"employee_id": c.Param("id"), "avg_rating": rating}, nil)
}

// DepartmentRanking godoc
// @Summary Performance ranking for a department
// @Tags Performance
// @Produce json
// @Param department query string true "Department name"
// @Success 200 {object} response.Envelope
// @Router /reviews/ranking [get]
func (h *PerformanceHandler) DepartmentRanking(c *gin.Context) {
	ranking, err := h.performance.DepartmentRanking(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// OverallSummary godoc
// @Summary Organisation-wide performance summary
// @Tags Performance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reviews/summary [get]
func (h *PerformanceHandler) OverallSummary(c *gin.Context) {
	summary, err := h.performance.OverallSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
