package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emstack/ems-api/internal/models"
)

func TestQueryObserverReceivesTimings(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	var labels []string
	SetQueryObserver(func(label string, duration time.Duration) {
		labels = append(labels, label)
	})
	t.Cleanup(func() { SetQueryObserver(nil) })

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs("e1").
		WillReturnRows(addEmployeeRow(employeeRows(), "e1", "jane@example.com"))

	_, err := repo.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"employees.find_by_id"}, labels)
}

func TestQueryObserverNilIsNoop(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)
	SetQueryObserver(nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE 1=1")).
		WillReturnRows(employeeRows())

	_, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
}
