package models

import "time"

// Department groups employees by the free-text department field on Employee.
// Membership is resolved at query time by case-insensitive substring match
// against Name.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ManagerID *string   `db:"manager_id" json:"manager_id,omitempty"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Budget    float64   `db:"budget" json:"budget"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DepartmentPatch carries a partial update; nil fields are left untouched.
type DepartmentPatch struct {
	Name      *string  `json:"name,omitempty"`
	ManagerID *string  `json:"manager_id,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Budget    *float64 `json:"budget,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p DepartmentPatch) Empty() bool {
	return p.Name == nil && p.ManagerID == nil && p.Location == nil && p.Budget == nil
}
