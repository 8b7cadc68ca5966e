package httpapi

import (
	"strconv"
	"strings"

	"StudyLeaderwebserver/internal/domain"
)

func pathID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// queryInt64Ptr parses an optional integer query parameter.
func queryInt64Ptr(raw, name string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError(map[string]string{name: "must be an integer"})
	}
	return &v, nil
}

func queryInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
