package main

import (
	"github.com/gin-gonic/gin"

	"github.com/emstack/ems-api/internal/handler"
	"github.com/emstack/ems-api/internal/middleware"
	"github.com/emstack/ems-api/internal/service"
	"github.com/emstack/ems-api/pkg/config"
)

type routeHandlers struct {
	auth        *handler.AuthHandler
	employees   *handler.EmployeeHandler
	departments *handler.DepartmentHandler
	attendance  *handler.AttendanceHandler
	leaves      *handler.LeaveHandler
	payrolls    *handler.PayrollHandler
	performance *handler.PerformanceHandler
	reports     *handler.ReportHandler
	metrics     *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h routeHandlers, authSvc *service.AuthService, cacheSvc *service.CacheService) {
	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.auth.Login)
	auth.POST("/refresh", h.auth.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), h.auth.Logout)
	auth.PUT("/password", middleware.JWT(authSvc), h.auth.ChangePassword)
	auth.GET("/me", middleware.JWT(authSvc), h.auth.Me)

	protected := api.Group("", middleware.JWT(authSvc), middleware.InvalidateSummaries(cacheSvc))
	cached := middleware.CacheSummary(cacheSvc)

	employees := protected.Group("/employees")
	employees.GET("", h.employees.List)
	employees.POST("", h.employees.Create)
	employees.GET("/:id", h.employees.Get)
	employees.PATCH("/:id", h.employees.Update)
	employees.DELETE("/:id", h.employees.Delete)

	departments := protected.Group("/departments")
	departments.GET("", h.departments.List)
	departments.POST("", h.departments.Create)
	departments.GET("/summary", cached, h.departments.Rollup)
	departments.GET("/:id", h.departments.Get)
	departments.PATCH("/:id", h.departments.Update)
	departments.DELETE("/:id", h.departments.Delete)

	attendance := protected.Group("/attendance")
	attendance.POST("", h.attendance.Mark)
	attendance.GET("/summary/department", cached, h.attendance.DepartmentSummary)
	attendance.GET("/date/:date", h.attendance.ListByDate)
	attendance.GET("/employee/:id", h.attendance.ListByEmployee)
	attendance.GET("/employee/:id/summary", cached, h.attendance.MonthlySummary)
	attendance.GET("/:id", h.attendance.Get)
	attendance.DELETE("/:id", h.attendance.Delete)

	leaves := protected.Group("/leaves")
	leaves.GET("", h.leaves.List)
	leaves.POST("", h.leaves.Apply)
	leaves.GET("/pending", h.leaves.Pending)
	leaves.GET("/summary", cached, h.leaves.SummaryByType)
	leaves.GET("/employee/:id", h.leaves.ListByEmployee)
	leaves.GET("/:id", h.leaves.Get)
	leaves.PATCH("/:id/status", h.leaves.UpdateStatus)
	leaves.DELETE("/:id", h.leaves.Delete)

	payrolls := protected.Group("/payrolls")
	payrolls.GET("", h.payrolls.ListByPeriod)
	payrolls.POST("", h.payrolls.Create)
	payrolls.GET("/summary", cached, h.payrolls.Summary)
	payrolls.GET("/summary/department", cached, h.payrolls.DepartmentSummary)
	payrolls.GET("/employee/:id", h.payrolls.ListByEmployee)
	payrolls.GET("/:id", h.payrolls.Get)
	payrolls.PATCH("/:id/status", h.payrolls.UpdateStatus)
	payrolls.DELETE("/:id", h.payrolls.Delete)

	reviews := protected.Group("/reviews")
	reviews.POST("", h.performance.Create)
	reviews.GET("/summary", cached, h.performance.OverallSummary)
	reviews.GET("/ranking", cached, h.performance.DepartmentRanking)
	reviews.GET("/employee/:id", h.performance.ListByEmployee)
	reviews.GET("/employee/:id/rating", h.performance.AverageRating)
	reviews.GET("/:id", h.performance.Get)
	reviews.PATCH("/:id/status", h.performance.UpdateStatus)
	reviews.DELETE("/:id", h.performance.Delete)

	reports := protected.Group("/reports")
	reports.GET("/employees", h.reports.Employees)
	reports.GET("/employees/:id", h.reports.EmployeeDetail)
	reports.GET("/attendance", h.reports.Attendance)
	reports.GET("/payroll", h.reports.Payroll)
	reports.GET("/leaves", h.reports.Leaves)
	reports.GET("/performance", h.reports.Performance)
	reports.GET("/departments", h.reports.Departments)

	protected.GET("/metrics/summary", h.metrics.Snapshot)
}
