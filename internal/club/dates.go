package club

import "time"

const dateLayout = "2006-01-02"

// AddDays shifts an ISO date by a number of days. Dates are plain calendar
// strings everywhere in this package; arithmetic goes through time.Time in
// one place so there is no timezone drift.
func AddDays(date string, days int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(dateLayout)
}

// IsValidDate reports whether date is a well-formed YYYY-MM-DD string.
func IsValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// Today returns the current local calendar date.
func Today() string {
	return time.Now().Format(dateLayout)
}
