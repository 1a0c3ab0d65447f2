package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be a positive integer"}
	}
	return value, nil
}

func ParseNonNegativeIntField(raw string, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0, FieldError{Field: field, Reason: "must be a non-negative integer"}
	}
	return value, nil
}

// ParseDateField validates a YYYY-MM-DD date string.
func ParseDateField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", FieldError{Field: field, Reason: "must be a date in YYYY-MM-DD form"}
	}
	return raw, nil
}

// ParseTimeField validates an HH:MM time string.
func ParseTimeField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(timeLayout, raw); err != nil {
		return "", FieldError{Field: field, Reason: "must be a time in HH:MM form"}
	}
	return raw, nil
}

// DivisionFromRequest reads the division path segment.
func DivisionFromRequest(r *http.Request) (string, error) {
	division := strings.TrimSpace(r.PathValue("division"))
	if division == "" {
		return "", fmt.Errorf("invalid division")
	}
	return division, nil
}

// IDFromRequest reads a positive integer path segment.
func IDFromRequest(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	if raw == "" {
		return 0, fmt.Errorf("invalid %s", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}
