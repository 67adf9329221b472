package report

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by the report core. Handlers map these to HTTP
// status codes; anything unrecognized is treated as a dependency failure.
var (
	// ErrInvalidArgument marks malformed caller input, e.g. an
	// unparseable date string.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a requested entity id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDependency marks a data-fetch or renderer failure. Requests
	// are not retried automatically; report generation is idempotent
	// and cheap to retry manually.
	ErrDependency = errors.New("dependency failure")
)

// HTTPStatus maps an error to the status code of its kind.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
