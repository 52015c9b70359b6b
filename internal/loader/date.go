package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid timetable date")

var (
	monthDayPattern = regexp.MustCompile(`^(\d{1,2})\s*[./-]\s*(\d{1,2})`)
	fullDatePattern = regexp.MustCompile(`^\d{8}$`)
)

// NormalizeDate expands a schedule date such as "11.14(목)" to YYYYMMDD.
// Months at or after pivotMonth belong to baseYear-1, the rest to baseYear.
// An input that is already YYYYMMDD is returned unchanged.
func NormalizeDate(raw string, pivotMonth, baseYear int) (string, error) {
	s := strings.TrimSpace(raw)
	if fullDatePattern.MatchString(s) {
		if _, err := time.Parse("20060102", s); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return s, nil
	}

	m := monthDayPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])

	year := baseYear
	if month >= pivotMonth {
		year = baseYear - 1
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t.Format("20060102"), nil
}
