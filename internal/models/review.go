package models

import "time"

// ReviewStatus represents the lifecycle state of a performance review.
type ReviewStatus string

const (
	ReviewStatusCompleted ReviewStatus = "Completed"
	ReviewStatusPending   ReviewStatus = "Pending"
	ReviewStatusCancelled ReviewStatus = "Cancelled"
)

// Valid returns true when the status is a supported value.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusCompleted, ReviewStatusPending, ReviewStatusCancelled:
		return true
	default:
		return false
	}
}

// PerformanceReview rates an employee on a 1-5 scale.
type PerformanceReview struct {
	ID         string       `db:"id" json:"id"`
	EmployeeID string       `db:"employee_id" json:"employee_id"`
	ReviewerID string       `db:"reviewer_id" json:"reviewer_id"`
	ReviewDate time.Time    `db:"review_date" json:"review_date"`
	Rating     float64      `db:"rating" json:"rating"`
	Comments   *string      `db:"comments" json:"comments,omitempty"`
	Goals      *string      `db:"goals" json:"goals,omitempty"`
	Status     ReviewStatus `db:"status" json:"status"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}
