package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCityNotFound is returned when the weather provider rejects a lookup
	ErrCityNotFound = errors.New("city not found")

	// ErrProviderUnavailable is returned when a provider has no API key configured
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrAQIUnavailable is a soft failure: the AQI section is simply omitted
	ErrAQIUnavailable = errors.New("aqi unavailable")
)

// ValidationError reports bad input. No external call is made when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// StatusCode maps an orchestration error to its HTTP-equivalent status
func StatusCode(err error) int {
	var vErr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, ErrCityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
