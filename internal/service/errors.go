package service

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrUnauthorized marks a request the server rejected with 401 or 403.
// By the time a caller sees it, the session has already been torn down.
var ErrUnauthorized = errors.New("unauthorized")

// IsUnauthorized reports whether err came from an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// Message returns the human-readable message the server attached to err,
// or fallback when there is none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
