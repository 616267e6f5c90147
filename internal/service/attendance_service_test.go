package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

// mockEmployeeDirectory backs the employee reader interfaces used by the
// attendance, leave, payroll, performance and department services.
type mockEmployeeDirectory struct {
	employees map[string]models.Employee
}

func (m *mockEmployeeDirectory) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeDirectory) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range m.employees {
		if e.Department == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*e.Department), strings.ToLower(department)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockAttendanceRepo struct {
	records  map[string]models.Attendance
	lastFrom time.Time
	lastTo   time.Time
	nextID   int
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.Attendance, error) {
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			found := r
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]models.Attendance, error) {
	m.lastFrom, m.lastTo = from, to
	var out []models.Attendance
	for _, r := range m.records {
		if r.EmployeeID == employeeID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, r := range m.records {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	if m.records == nil {
		m.records = make(map[string]models.Attendance)
	}
	if record.ID == "" {
		m.nextID++
		record.ID = fmt.Sprintf("att-%d", m.nextID)
	}
	m.records[record.ID] = *record
	return nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, record *models.Attendance) error {
	m.records[record.ID] = *record
	return nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func newAttendanceService(repo *mockAttendanceRepo, dir *mockEmployeeDirectory) *AttendanceService {
	return NewAttendanceService(repo, dir, validator.New(), zap.NewNop())
}

func TestAttendanceServiceMarkCreates(t *testing.T) {
	repo := &mockAttendanceRepo{}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newAttendanceService(repo, dir)

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EmployeeID:  "e1",
		Date:        time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		Status:      models.AttendanceStatusPresent,
		HoursWorked: 8,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), record.Date)
	assert.Equal(t, 1, len(repo.records))
}

func TestAttendanceServiceMarkTwiceUpdatesInPlace(t *testing.T) {
	repo := &mockAttendanceRepo{}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newAttendanceService(repo, dir)

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	first, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EmployeeID: "e1", Date: day, Status: models.AttendanceStatusPresent, HoursWorked: 8,
	})
	require.NoError(t, err)

	second, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EmployeeID: "e1", Date: day.Add(9 * time.Hour), Status: models.AttendanceStatusLate, HoursWorked: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, len(repo.records))
	stored := repo.records[first.ID]
	assert.Equal(t, models.AttendanceStatusLate, stored.Status)
	assert.Equal(t, 6.0, stored.HoursWorked)
}

func TestAttendanceServiceMarkUnknownEmployee(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, &mockEmployeeDirectory{})

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EmployeeID: "nobody", Date: time.Now(), Status: models.AttendanceStatusPresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceMarkInvalidStatus(t *testing.T) {
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newAttendanceService(&mockAttendanceRepo{}, dir)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		EmployeeID: "e1", Date: time.Now(), Status: models.AttendanceStatus("Vacationing"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceMonthlySummary(t *testing.T) {
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EmployeeID: "e1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusPresent, HoursWorked: 8},
		"a2": {ID: "a2", EmployeeID: "e1", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusLate, HoursWorked: 7},
		"a3": {ID: "a3", EmployeeID: "e1", Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusAbsent},
		"a4": {ID: "a4", EmployeeID: "e1", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusHalfDay, HoursWorked: 4},
		"a5": {ID: "a5", EmployeeID: "e1", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusPresent, HoursWorked: 8},
	}}
	svc := newAttendanceService(repo, &mockEmployeeDirectory{})

	summary, err := svc.MonthlySummary(context.Background(), "e1", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalDays)
	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.LateDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 1, summary.HalfDays)
	assert.Equal(t, 19.0, summary.TotalHours)
}

func TestAttendanceServiceMonthlySummaryDecember(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo, &mockEmployeeDirectory{})

	_, err := svc.MonthlySummary(context.Background(), "e1", 2024, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), repo.lastFrom)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), repo.lastTo)
}

func TestAttendanceServiceMonthlySummaryInvalidMonth(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, &mockEmployeeDirectory{})

	_, err := svc.MonthlySummary(context.Background(), "e1", 2024, 13)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceDepartmentSummary(t *testing.T) {
	eng := "Engineering"
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{
		"e1": {ID: "e1", Department: &eng},
		"e2": {ID: "e2", Department: &eng},
	}}
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EmployeeID: "e1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusPresent},
		"a2": {ID: "a2", EmployeeID: "e1", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusPresent},
		"a3": {ID: "a3", EmployeeID: "e2", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusAbsent},
		"a4": {ID: "a4", EmployeeID: "e2", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusPresent},
	}}
	svc := newAttendanceService(repo, dir)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	summary, err := svc.DepartmentSummary(context.Background(), "Engineering", from, to)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 3, summary.TotalPresent)
	assert.Equal(t, 1, summary.TotalAbsent)
	// 3 present / (2 employees x 2 days)
	assert.InDelta(t, 75.0, summary.AttendanceRate, 0.001)
}

func TestAttendanceServiceDepartmentSummaryNoEmployees(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, &mockEmployeeDirectory{})

	summary, err := svc.DepartmentSummary(context.Background(), "Ghost",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestInclusiveDaySpan(t *testing.T) {
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, inclusiveDaySpan(from, from))
	assert.Equal(t, 3, inclusiveDaySpan(from, from.AddDate(0, 0, 2)))
	assert.Equal(t, 31, inclusiveDaySpan(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
}
