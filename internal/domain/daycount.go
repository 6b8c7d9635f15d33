package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DayCount identifies the day-count convention used to turn an accrual period
// into a year fraction. The convention is explicit configuration; it is never
// inferred from the trade.
type DayCount string

const (
	// DayCountAct360 is Actual/360: actual calendar days over a 360-day year
	DayCountAct360 DayCount = "ACT/360"
	// DayCount30360 is 30/360 (US): 30-day months over a 360-day year
	DayCount30360 DayCount = "30/360"
)

// ParseDayCount validates a configured day-count convention string
func ParseDayCount(s string) (DayCount, error) {
	switch DayCount(s) {
	case DayCountAct360:
		return DayCountAct360, nil
	case DayCount30360:
		return DayCount30360, nil
	}
	return "", fmt.Errorf("unknown day count convention: %q", s)
}

var basis360 = decimal.NewFromInt(360)

// Fraction returns the year fraction for the accrual period [start, end)
// under the convention. Both dates are treated as civil dates (midnight UTC).
func (dc DayCount) Fraction(start, end time.Time) decimal.Decimal {
	var days int64
	switch dc {
	case DayCount30360:
		days = days30360(start, end)
	default:
		days = int64(end.Sub(start).Hours() / 24)
	}
	return decimal.NewFromInt(days).Div(basis360)
}

// days30360 counts days between two dates under the 30/360 US convention
func days30360(start, end time.Time) int64 {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()

	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 == 30 {
		d2 = 30
	}

	return int64(360*(y2-y1) + 30*(int(m2)-int(m1)) + (d2 - d1))
}
