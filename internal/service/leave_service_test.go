package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type mockLeaveRepo struct {
	leaves map[string]models.Leave
	nextID int
}

func (m *mockLeaveRepo) FindByID(ctx context.Context, id string) (*models.Leave, error) {
	if l, ok := m.leaves[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLeaveRepo) ListByEmployee(ctx context.Context, employeeID string) ([]models.Leave, error) {
	var out []models.Leave
	for _, l := range m.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) ListPending(ctx context.Context) ([]models.Leave, error) {
	var out []models.Leave
	for _, l := range m.leaves {
		if l.Status == models.LeaveStatusPending {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) ListByStatusAndType(ctx context.Context, status *models.LeaveStatus, leaveType *models.LeaveType) ([]models.Leave, error) {
	var out []models.Leave
	for _, l := range m.leaves {
		if status != nil && l.Status != *status {
			continue
		}
		if leaveType != nil && l.Type != *leaveType {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockLeaveRepo) CountOverlapping(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	count := 0
	for _, l := range m.leaves {
		if l.EmployeeID != employeeID {
			continue
		}
		if l.Status != models.LeaveStatusPending && l.Status != models.LeaveStatusApproved {
			continue
		}
		if !l.StartDate.After(to) && !l.EndDate.Before(from) {
			count++
		}
	}
	return count, nil
}

func (m *mockLeaveRepo) ListContained(ctx context.Context, from, to time.Time) ([]models.Leave, error) {
	var out []models.Leave
	for _, l := range m.leaves {
		if !l.StartDate.Before(from) && !l.EndDate.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *models.Leave) error {
	if m.leaves == nil {
		m.leaves = make(map[string]models.Leave)
	}
	if leave.ID == "" {
		m.nextID++
		leave.ID = fmt.Sprintf("lv-%d", m.nextID)
	}
	m.leaves[leave.ID] = *leave
	return nil
}

func (m *mockLeaveRepo) UpdateStatus(ctx context.Context, id string, status models.LeaveStatus, approvedBy *string) (*models.Leave, error) {
	l, ok := m.leaves[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	l.Status = status
	if approvedBy != nil {
		l.ApprovedBy = approvedBy
	}
	m.leaves[id] = l
	return &l, nil
}

func (m *mockLeaveRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.leaves[id]; !ok {
		return false, nil
	}
	delete(m.leaves, id)
	return true, nil
}

func newLeaveService(repo *mockLeaveRepo, dir *mockEmployeeDirectory) *LeaveService {
	return NewLeaveService(repo, dir, validator.New(), zap.NewNop())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveServiceApplyComputesDays(t *testing.T) {
	repo := &mockLeaveRepo{}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(repo, dir)

	leave, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveTypeVacation,
		StartDate:  day(2024, 3, 10),
		EndDate:    day(2024, 3, 12),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, leave.DaysCount)
	assert.Equal(t, models.LeaveStatusPending, leave.Status)
}

func TestLeaveServiceApplySingleDay(t *testing.T) {
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(&mockLeaveRepo{}, dir)

	leave, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveTypeSick,
		StartDate:  day(2024, 3, 10),
		EndDate:    day(2024, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, leave.DaysCount)
}

func TestLeaveServiceApplyOverlapConflict(t *testing.T) {
	repo := &mockLeaveRepo{leaves: map[string]models.Leave{
		"lv-1": {ID: "lv-1", EmployeeID: "e1", Type: models.LeaveTypeVacation,
			StartDate: day(2024, 3, 10), EndDate: day(2024, 3, 15), Status: models.LeaveStatusApproved},
	}}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(repo, dir)

	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveTypeSick,
		StartDate:  day(2024, 3, 14),
		EndDate:    day(2024, 3, 18),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLeaveServiceApplyTouchingEndpointsConflict(t *testing.T) {
	repo := &mockLeaveRepo{leaves: map[string]models.Leave{
		"lv-1": {ID: "lv-1", EmployeeID: "e1", Type: models.LeaveTypeVacation,
			StartDate: day(2024, 3, 10), EndDate: day(2024, 3, 15), Status: models.LeaveStatusPending},
	}}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(repo, dir)

	// New range starts exactly where the pending one ends.
	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveTypeSick,
		StartDate:  day(2024, 3, 15),
		EndDate:    day(2024, 3, 16),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLeaveServiceApplyIgnoresRejected(t *testing.T) {
	repo := &mockLeaveRepo{leaves: map[string]models.Leave{
		"lv-1": {ID: "lv-1", EmployeeID: "e1", Type: models.LeaveTypeVacation,
			StartDate: day(2024, 3, 10), EndDate: day(2024, 3, 15), Status: models.LeaveStatusRejected},
	}}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(repo, dir)

	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveTypeSick,
		StartDate:  day(2024, 3, 12),
		EndDate:    day(2024, 3, 13),
	})
	require.NoError(t, err)
}

func TestLeaveServiceApplyEndBeforeStart(t *testing.T) {
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(&mockLeaveRepo{}, dir)

	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveTypeSick,
		StartDate:  day(2024, 3, 12),
		EndDate:    day(2024, 3, 10),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLeaveServiceApplyInvalidType(t *testing.T) {
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newLeaveService(&mockLeaveRepo{}, dir)

	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: "e1",
		Type:       models.LeaveType("Sabbatical"),
		StartDate:  day(2024, 3, 10),
		EndDate:    day(2024, 3, 12),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLeaveServiceUpdateStatusApproves(t *testing.T) {
	repo := &mockLeaveRepo{leaves: map[string]models.Leave{
		"lv-1": {ID: "lv-1", EmployeeID: "e1", Status: models.LeaveStatusPending},
	}}
	svc := newLeaveService(repo, &mockEmployeeDirectory{})

	approver := "hr-1"
	leave, err := svc.UpdateStatus(context.Background(), "lv-1", models.LeaveStatusApproved, &approver)
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, leave.Status)
	require.NotNil(t, leave.ApprovedBy)
	assert.Equal(t, "hr-1", *leave.ApprovedBy)
}

func TestLeaveServiceUpdateStatusNotFound(t *testing.T) {
	svc := newLeaveService(&mockLeaveRepo{}, &mockEmployeeDirectory{})

	_, err := svc.UpdateStatus(context.Background(), "missing", models.LeaveStatusApproved, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLeaveServiceSummaryByType(t *testing.T) {
	repo := &mockLeaveRepo{leaves: map[string]models.Leave{
		"lv-1": {ID: "lv-1", EmployeeID: "e1", Type: models.LeaveTypeSick, StartDate: day(2024, 3, 5), EndDate: day(2024, 3, 6)},
		"lv-2": {ID: "lv-2", EmployeeID: "e2", Type: models.LeaveTypeSick, StartDate: day(2024, 3, 10), EndDate: day(2024, 3, 11)},
		"lv-3": {ID: "lv-3", EmployeeID: "e3", Type: models.LeaveTypeVacation, StartDate: day(2024, 3, 15), EndDate: day(2024, 3, 20)},
		// Spans outside the range, so containment excludes it.
		"lv-4": {ID: "lv-4", EmployeeID: "e4", Type: models.LeaveTypeVacation, StartDate: day(2024, 2, 25), EndDate: day(2024, 3, 5)},
	}}
	svc := newLeaveService(repo, &mockEmployeeDirectory{})

	summary, err := svc.SummaryByType(context.Background(), day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, 2, summary[models.LeaveTypeSick])
	assert.Equal(t, 1, summary[models.LeaveTypeVacation])
	assert.Equal(t, 2, len(summary))
}
