package http

import (
	"fmt"
	"net/http"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const userIDHeader = "X-User-ID"

// pathID binds a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || id <= 0 {
		return 0, &validation.ValidationError{
			Errors: []string{fmt.Sprintf("path parameter '%s' must be a positive integer", name)},
		}
	}

	return id, nil
}

// callerID returns the authenticated user taken from the X-User-ID header.
// The header is set by the gateway in front of the service.
func callerID(r *http.Request) (int64, error) {
	value := r.Header.Get(userIDHeader)
	if value == "" {
		return 0, apperrors.ErrUnauthorized
	}

	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", userIDHeader, value, &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Required: true})
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed %s header", apperrors.ErrUnauthorized, userIDHeader)
	}

	return id, nil
}
