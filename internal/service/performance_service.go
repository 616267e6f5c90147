package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/dto"
	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type reviewRepository interface {
	FindByID(ctx context.Context, id string) (*models.PerformanceReview, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.PerformanceReview, error)
	ListCompletedByEmployee(ctx context.Context, employeeID string) ([]models.PerformanceReview, error)
	ListCompleted(ctx context.Context) ([]models.PerformanceReview, error)
	Create(ctx context.Context, review *models.PerformanceReview) error
	UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) (*models.PerformanceReview, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type reviewEmployeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
}

// CreateReviewRequest holds payload for filing a performance review.
type CreateReviewRequest struct {
	EmployeeID string               `json:"employee_id" validate:"required"`
	ReviewerID string               `json:"reviewer_id" validate:"required"`
	ReviewDate time.Time            `json:"review_date" validate:"required"`
	Rating     float64              `json:"rating" validate:"gte=1,lte=5"`
	Comments   *string              `json:"comments"`
	Goals      *string              `json:"goals"`
	Status     *models.ReviewStatus `json:"status"`
}

// PerformanceService handles reviews, ratings and performance summaries.
type PerformanceService struct {
	repo      reviewRepository
	employees reviewEmployeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPerformanceService constructs the performance service.
func NewPerformanceService(repo reviewRepository, employees reviewEmployeeReader, validate *validator.Validate, logger *zap.Logger) *PerformanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// CreateReview files a review for an employee.
func (s *PerformanceService) CreateReview(ctx context.Context, req CreateReviewRequest) (*models.PerformanceReview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	status := models.ReviewStatusCompleted
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid review status")
		}
		status = *req.Status
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	review := &models.PerformanceReview{
		EmployeeID: req.EmployeeID,
		ReviewerID: req.ReviewerID,
		ReviewDate: truncateToDay(req.ReviewDate),
		Rating:     req.Rating,
		Comments:   req.Comments,
		Goals:      req.Goals,
		Status:     status,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, nil
}

// Get returns one review.
func (s *PerformanceService) Get(ctx context.Context, id string) (*models.PerformanceReview, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	return review, nil
}

// ListByEmployee returns an employee's reviews, most recent first.
func (s *PerformanceService) ListByEmployee(ctx context.Context, employeeID string) ([]models.PerformanceReview, error) {
	reviews, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// UpdateStatus changes the lifecycle state of a review.
func (s *PerformanceService) UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) (*models.PerformanceReview, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid review status")
	}
	review, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review status")
	}
	return review, nil
}

// Delete removes one review.
func (s *PerformanceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete review")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "review not found")
	}
	return nil
}

// AverageRating returns the mean rating over an employee's completed reviews,
// or 0.0 when none exist.
func (s *PerformanceService) AverageRating(ctx context.Context, employeeID string) (float64, error) {
	reviews, err := s.repo.ListCompletedByEmployee(ctx, employeeID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	if len(reviews) == 0 {
		return 0.0, nil
	}
	var total float64
	for _, r := range reviews {
		total += r.Rating
	}
	return total / float64(len(reviews)), nil
}

// DepartmentRanking ranks a department's employees by completed-review
// average, highest first. Employees with no completed reviews are excluded.
func (s *PerformanceService) DepartmentRanking(ctx context.Context, department string) ([]dto.EmployeePerformance, error) {
	employees, err := s.employees.ListByDepartment(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department employees")
	}

	ranking := make([]dto.EmployeePerformance, 0, len(employees))
	for _, employee := range employees {
		reviews, err := s.repo.ListCompletedByEmployee(ctx, employee.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
		}
		if len(reviews) == 0 {
			continue
		}
		var total float64
		for _, r := range reviews {
			total += r.Rating
		}
		avg := total / float64(len(reviews))
		dept := ""
		if employee.Department != nil {
			dept = *employee.Department
		}
		ranking = append(ranking, dto.EmployeePerformance{
			EmployeeID:  employee.ID,
			Name:        employee.FullName(),
			Department:  dept,
			AvgRating:   avg,
			ReviewCount: len(reviews),
			RatingLevel: ratingLevel(avg),
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].AvgRating > ranking[j].AvgRating
	})
	return ranking, nil
}

// OverallSummary aggregates every completed review. Returns nil when no
// completed reviews exist anywhere.
func (s *PerformanceService) OverallSummary(ctx context.Context) (*dto.PerformanceSummary, error) {
	reviews, err := s.repo.ListCompleted(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	summary := &dto.PerformanceSummary{
		TotalReviews: len(reviews),
		MaxRating:    reviews[0].Rating,
		MinRating:    reviews[0].Rating,
	}
	var total float64
	for _, r := range reviews {
		total += r.Rating
		if r.Rating > summary.MaxRating {
			summary.MaxRating = r.Rating
		}
		if r.Rating < summary.MinRating {
			summary.MinRating = r.Rating
		}
		switch ratingLevel(r.Rating) {
		case "Excellent":
			summary.Distribution.Excellent++
		case "Very Good":
			summary.Distribution.VeryGood++
		case "Good":
			summary.Distribution.Good++
		case "Needs Improvement":
			summary.Distribution.NeedsImprovement++
		default:
			summary.Distribution.Unsatisfactory++
		}
	}
	summary.AvgRating = total / float64(len(reviews))
	return summary, nil
}

// ratingLevel buckets an average rating into the five categorical labels.
func ratingLevel(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Excellent"
	case rating >= 4.0:
		return "Very Good"
	case rating >= 3.0:
		return "Good"
	case rating >= 2.0:
		return "Needs Improvement"
	default:
		return "Unsatisfactory"
	}
}
