package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// parseBool parses a boolean string and returns the boolean value.
//
// Returns true for "true" or "1", false otherwise.
func parseBool(s string) bool {
	return s == "true" || s == "1"
}

// parseWait converts a wait-for-query value to milliseconds clamped to
// [minMs, maxMs]. Accepts a Go duration ("30s", "1m") or a bare number
// of seconds. Empty disables the timeout (returns 0).
func parseWait(s string, minMs, maxMs int64) (int64, error) {
	if s == "" {
		return 0, nil
	}
	var ms int64
	if d, err := time.ParseDuration(s); err == nil {
		ms = d.Milliseconds()
	} else if secs, err := strconv.ParseFloat(s, 64); err == nil {
		ms = int64(secs * 1000)
	} else {
		return 0, fmt.Errorf("invalid wait-for-query %q", s)
	}
	if ms < minMs {
		ms = minMs
	}
	if maxMs > 0 && ms > maxMs {
		ms = maxMs
	}
	return ms, nil
}

// parsePositiveInt parses s as a positive integer, returning def when
// empty and an error for zero, negative, or unparsable values.
func parsePositiveInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return n, nil
}

// parseLimit parses a limit string and returns a valid limit value.
//
// Returns 0 for empty strings or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseOffset parses an offset string, returning 0 for empty or invalid
// values.
func parseOffset(s string) int {
	if s == "" {
		return 0
	}
	if off, err := strconv.Atoi(s); err == nil && off >= 0 {
		return off
	}
	return 0
}
