package application

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// UnixEpochJD is the Julian Day of 1970-01-01T00:00:00Z
const UnixEpochJD = 2440587.5

const secondsPerDay = 86400

// TimeFromJD converts a Julian Day to a UTC time, rounded to the second
func TimeFromJD(jd float64) time.Time {
	secs := math.Round((jd - UnixEpochJD) * secondsPerDay)
	return time.Unix(int64(secs), 0).UTC()
}

// JDFromTime converts a time to a Julian Day
func JDFromTime(t time.Time) float64 {
	return UnixEpochJD + float64(t.UnixNano())/1e9/secondsPerDay
}

// FormatJD renders a Julian Day as a UTC date
func FormatJD(jd float64) string {
	return TimeFromJD(jd).Format("2006-01-02 15:04")
}

// ParseDate accepts either a Julian Day number or an RFC 3339 / YYYY-MM-DD
// date and returns the Julian Day
func ParseDate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return JDFromTime(t), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return JDFromTime(t), nil
	}
	jd, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: "date", Message: "expected a Julian Day, RFC 3339 time or YYYY-MM-DD, got: " + s}
	}
	return jd, nil
}
