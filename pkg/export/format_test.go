package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$75.50", Money(75.5))
	assert.Equal(t, "$1,234.56", Money(1234.56))
	assert.Equal(t, "$1,234,567.80", Money(1234567.8))
	assert.Equal(t, "-$950.25", Money(-950.25))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "75.0%", Percent(75))
	assert.Equal(t, "33.3%", Percent(33.333))
	assert.Equal(t, "0.0%", Percent(0))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", Date(time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)))
}
