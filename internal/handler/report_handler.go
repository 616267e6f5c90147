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

// ReportHandler exposes tabular report endpoints. Reports are rendered as
// plain text grids.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Employees godoc
// @Summary Employee roster report
// @Tags Reports
// @Produce plain
// @Param department query string false "Filter by department"
// @Param status query string false "Filter by status"
// @Success 200 {string} string
// @Router /reports/employees [get]
func (h *ReportHandler) Employees(c *gin.Context) {
	var status *models.EmployeeStatus
	if v := c.Query("status"); v != "" {
		s := models.EmployeeStatus(v)
		status = &s
	}
	report, err := h.reports.EmployeeReport(c.Request.Context(), c.Query("department"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// Attendance godoc
// @Summary Attendance report
// @Tags Reports
// @Produce plain
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Param department query string false "Filter by department"
// @Success 200 {string} string
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.AttendanceReport(c.Request.Context(), from, to, c.Query("department"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// Payroll godoc
// @Summary Payroll report
// @Tags Reports
// @Produce plain
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {string} string
// @Router /reports/payroll [get]
func (h *ReportHandler) Payroll(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.PayrollReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// Leaves godoc
// @Summary Leave report
// @Tags Reports
// @Produce plain
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by leave type"
// @Success 200 {string} string
// @Router /reports/leaves [get]
func (h *ReportHandler) Leaves(c *gin.Context) {
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
	report, err := h.reports.LeaveReport(c.Request.Context(), status, leaveType)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// Performance godoc
// @Summary Performance report
// @Tags Reports
// @Produce plain
// @Param department query string false "Department for ranking report"
// @Success 200 {string} string
// @Router /reports/performance [get]
func (h *ReportHandler) Performance(c *gin.Context) {
	report, err := h.reports.PerformanceReport(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// Departments godoc
// @Summary Department summary report
// @Tags Reports
// @Produce plain
// @Success 200 {string} string
// @Router /reports/departments [get]
func (h *ReportHandler) Departments(c *gin.Context) {
	report, err := h.reports.DepartmentSummaryReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// EmployeeDetail godoc
// @Summary Employee detail report
// @Tags Reports
// @Produce plain
// @Param id path string true "Employee ID"
// @Success 200 {string} string
// @Router /reports/employees/{id} [get]
func (h *ReportHandler) EmployeeDetail(c *gin.Context) {
	report, err := h.reports.EmployeeDetailReport(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, report, c.Query("export"))
}

// deliver writes the report inline, or exports it to a file when the export
// query parameter names one. The filename extension picks the format.
func (h *ReportHandler) deliver(c *gin.Context, report *service.Report, filename string) {
	if filename == "" {
		c.String(http.StatusOK, report.Text)
		return
	}
	msg, err := h.reports.Export(report, filename)
	if err != nil {
		response.Error(c, appErrors.FromError(err))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": msg}, nil)
}
