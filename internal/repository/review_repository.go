package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/emstack/ems-api/internal/models"
)

const reviewColumns = `id, employee_id, reviewer_id, review_date, rating, comments, goals, status, created_at`

// ReviewRepository handles persistence for performance reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new repository instance.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// FindByID returns a review by id.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.PerformanceReview, error) {
	defer observeQuery("reviews.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM performance_reviews WHERE id = $1", reviewColumns)
	var review models.PerformanceReview
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByEmployee returns an employee's reviews, newest first.
func (r *ReviewRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.PerformanceReview, error) {
	defer observeQuery("reviews.list_by_employee", time.Now())
	query := fmt.Sprintf("SELECT %s FROM performance_reviews WHERE employee_id = $1 ORDER BY review_date DESC", reviewColumns)
	var reviews []models.PerformanceReview
	if err := r.db.SelectContext(ctx, &reviews, query, employeeID); err != nil {
		return nil, fmt.Errorf("list reviews by employee: %w", err)
	}
	return reviews, nil
}

// ListCompletedByEmployee returns an employee's completed reviews.
func (r *ReviewRepository) ListCompletedByEmployee(ctx context.Context, employeeID string) ([]models.PerformanceReview, error) {
	defer observeQuery("reviews.list_completed_by_employee", time.Now())
	query := fmt.Sprintf("SELECT %s FROM performance_reviews WHERE employee_id = $1 AND status = $2", reviewColumns)
	var reviews []models.PerformanceReview
	if err := r.db.SelectContext(ctx, &reviews, query, employeeID, models.ReviewStatusCompleted); err != nil {
		return nil, fmt.Errorf("list completed reviews by employee: %w", err)
	}
	return reviews, nil
}

// ListCompleted returns every completed review.
func (r *ReviewRepository) ListCompleted(ctx context.Context) ([]models.PerformanceReview, error) {
	defer observeQuery("reviews.list_completed", time.Now())
	query := fmt.Sprintf("SELECT %s FROM performance_reviews WHERE status = $1", reviewColumns)
	var reviews []models.PerformanceReview
	if err := r.db.SelectContext(ctx, &reviews, query, models.ReviewStatusCompleted); err != nil {
		return nil, fmt.Errorf("list completed reviews: %w", err)
	}
	return reviews, nil
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.PerformanceReview) error {
	defer observeQuery("reviews.create", time.Now())
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now().UTC()

	query := `INSERT INTO performance_reviews (id, employee_id, reviewer_id, review_date, rating, comments, goals, status, created_at)
VALUES (:id, :employee_id, :reviewer_id, :review_date, :rating, :comments, :goals, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// UpdateStatus sets the review status. Returns sql.ErrNoRows when the review
// does not exist.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) (*models.PerformanceReview, error) {
	defer observeQuery("reviews.update_status", time.Now())
	query := fmt.Sprintf("UPDATE performance_reviews SET status = $1 WHERE id = $2 RETURNING %s", reviewColumns)
	var review models.PerformanceReview
	if err := r.db.GetContext(ctx, &review, query, status, id); err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes a review. Returns false when no row matched.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observeQuery("reviews.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM performance_reviews WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete review result: %w", err)
	}
	return affected > 0, nil
}
