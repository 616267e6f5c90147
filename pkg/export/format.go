package export

import (
	"fmt"
	"strings"
	"time"
)

// Money formats an amount as a dollar value with a thousands separator and
// two decimals, e.g. 1234567.8 -> "$1,234,567.80".
func Money(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if negative {
		return "-$" + b.String() + frac
	}
	return "$" + b.String() + frac
}

// Percent formats a ratio already scaled to 0-100 with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Date formats a date as ISO YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}
