package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// parseMinInt accepts a JSON number or numeric string and enforces a lower bound.
// Fractions and overflow are rejected rather than truncated.
func parseMinInt(field string, raw json.Number, min int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw.String()))
	if err != nil {
		return 0, appErrors.Validation(err, fmt.Sprintf("%s must be an integer", field))
	}
	if value < min {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be at least %d", field, min))
	}
	return value, nil
}

// parseOptionalMinInt is parseMinInt for optional fields. Nil and empty values stay nil.
func parseOptionalMinInt(field string, raw *json.Number, min int) (*int, error) {
	if raw == nil || strings.TrimSpace(raw.String()) == "" {
		return nil, nil
	}
	value, err := parseMinInt(field, *raw, min)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and keeps the calendar date in UTC.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, appErrors.Validation(err, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field))
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
