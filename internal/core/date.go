package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day as stored on an expense record.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate accepts "YYYY-MM-DD" and "YYYY-MM"; the latter defaults the day
// to 1. Any other shape yields a *DateFormatError.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 && len(parts) != 3 {
		return Date{}, &DateFormatError{Value: s}
	}

	nums := make([]int, 3)
	nums[2] = 1
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, &DateFormatError{Value: s}
		}
		nums[i] = n
	}

	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !d.valid() {
		return Date{}, &DateFormatError{Value: s}
	}
	return d, nil
}

func (d Date) valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	// time.Date normalizes overflow, so a round trip catches Feb 30 and friends
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == d.Day && int(t.Month()) == d.Month
}

// Time returns local midnight of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.Local)
}

// Timestamp returns the epoch seconds of local midnight.
func (d Date) Timestamp() int64 {
	return d.Time().Unix()
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}
