package google

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrEngineIDNotSet = errors.Wrap(ErrConfiguration, "engine id not set")
	ErrAPIKeyNotSet   = errors.Wrap(ErrConfiguration, "api key not set")
	ErrInvalidState   = errors.New("invalid state")
)

// RequestError is returned when the search request could not be executed or
// when the API answered with a status other than 200.
type RequestError struct {
	// StatusCode is 0 when no response was received
	StatusCode int
	Status     string
	Body       []byte
	Err        error
}

// Error implements error.
func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("search request failed: %v", e.Err)
	}

	msg := fmt.Sprintf("search request failed with http status %d (%s)", e.StatusCode, e.Status)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}

	if len(e.Body) > 0 {
		msg += fmt.Sprintf(":\n%s", e.Body)
	}

	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
