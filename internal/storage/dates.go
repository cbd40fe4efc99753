package storage

import "time"

// DateLayout is how calendar dates are rendered and stored as text.
const DateLayout = "2006-01-02"

// DateOnly drops the clock and location from t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
