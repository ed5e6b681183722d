package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	EventDateLayout     = "2006-01-02"
	dateTimeLocalLayout = "2006-01-02T15:04"
)

func ParseNonNegativeInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be 0 or greater", field)
	}
	return value, nil
}

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

// ParseOptionalNonNegativeInt64Field returns fallback when raw is blank.
func ParseOptionalNonNegativeInt64Field(raw string, field string, fallback int64) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return ParseNonNegativeInt64Field(raw, field)
}

func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// PathID parses a positive integer path value such as {id}.
func PathID(r *http.Request, key string, label string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	if raw == "" {
		return 0, fmt.Errorf("invalid %s ID", label)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID", label)
	}
	return id, nil
}

// ParseEventDate parses a YYYY-MM-DD date and rejects dates before today in
// now's location. The result is midnight UTC of the given calendar day.
func ParseEventDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, FieldError{Field: "date", Reason: "is required"}
	}
	parsed, err := time.Parse(EventDateLayout, raw)
	if err != nil {
		return time.Time{}, FieldError{Field: "date", Reason: "must be in YYYY-MM-DD format"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(today) {
		return time.Time{}, FieldError{Field: "date", Reason: "cannot be in the past"}
	}
	return parsed, nil
}

// ParseOptionalDateTime accepts RFC3339 or an HTML datetime-local value in the
// server's local zone. Blank input returns the zero time and false.
func ParseOptionalDateTime(raw string, field string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), true, nil
	}
	for _, layout := range []string{dateTimeLocalLayout, "2006-01-02 15:04"} {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%s must be a valid date and time", field)
}
