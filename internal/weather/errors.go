package weather

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMalformed is returned when the payload lacks the expected top-level shape.
	ErrMalformed = errors.New("malformed observation payload")

	// ErrNoData is returned when the feed reports the "-" no-data marker as
	// its weather text. It is a benign skip, not a failure.
	ErrNoData = errors.New("observation has no weather data")
)

// FetchErrorKind distinguishes upstream HTTP failures from transport failures.
type FetchErrorKind int

const (
	FetchTransport FetchErrorKind = iota
	FetchHTTPStatus
)

// FetchError describes a failed fetch of the observation feed.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // set for FetchHTTPStatus
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetch failed: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsHTTPStatus reports whether err is a FetchError caused by a non-2xx
// response, and returns that status.
func IsHTTPStatus(err error) (int, bool) {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind == FetchHTTPStatus {
		return fe.StatusCode, true
	}
	return 0, false
}

var validate = validator.New()

// Validate checks that both station fields are present.
func (s Station) Validate() error {
	return validate.Struct(s)
}
