package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/instrument"
)

// Response is the envelope of every readout and error.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Field   string      `json:"field,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Error codes carried in Response.Code.
const (
	CodeFormat      = "format_error"
	CodeValidation  = "validation_error"
	CodeDomain      = "domain_error"
	CodeLookup      = "lookup_error"
	CodeUnknownKind = "unknown_instrument"
	CodeNotFound    = "not_found"
	CodeRateLimited = "rate_limited"
	CodeCancelled   = "cancelled"
	CodeInternal    = "internal_error"
)

// HTTPError is an error with its HTTP status and envelope fields.
type HTTPError struct {
	Status  int
	Code    string
	Field   string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) response() Response {
	return Response{Success: false, Error: e.Message, Field: e.Field, Code: e.Code}
}

// toHTTPError maps engine errors onto HTTP statuses.
func toHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	out := &HTTPError{Message: err.Error(), Field: astro.FieldOf(err), Err: err}
	switch {
	case errors.Is(err, instrument.ErrUnknownKind):
		out.Status, out.Code = http.StatusNotFound, CodeUnknownKind
	case errors.Is(err, astro.ErrFormat):
		out.Status, out.Code = http.StatusBadRequest, CodeFormat
	case errors.Is(err, astro.ErrValidation):
		out.Status, out.Code = http.StatusBadRequest, CodeValidation
	case errors.Is(err, astro.ErrDomain):
		out.Status, out.Code = http.StatusUnprocessableEntity, CodeDomain
	case errors.Is(err, astro.ErrLookup):
		out.Status, out.Code = http.StatusInternalServerError, CodeLookup
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		out.Status, out.Code = http.StatusServiceUnavailable, CodeCancelled
	default:
		var ee *echo.HTTPError
		if errors.As(err, &ee) {
			out.Status = ee.Code
			out.Message = fmt.Sprint(ee.Message)
			out.Code = CodeInternal
			if ee.Code == http.StatusNotFound {
				out.Code = CodeNotFound
			} else if ee.Code < 500 {
				out.Code = CodeValidation
			}
			return out
		}
		out.Status, out.Code = http.StatusInternalServerError, CodeInternal
		out.Message = "internal server error"
	}
	return out
}

// errorClass labels engine error metrics.
func errorClass(err error) string {
	switch {
	case errors.Is(err, astro.ErrFormat):
		return "format"
	case errors.Is(err, astro.ErrValidation):
		return "validation"
	case errors.Is(err, astro.ErrDomain):
		return "domain"
	case errors.Is(err, astro.ErrLookup):
		return "lookup"
	default:
		return "other"
	}
}

func success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// fail writes err as an error envelope.
func (s *Server) fail(c echo.Context, err error) error {
	he := toHTTPError(err)
	if he.Status >= 500 {
		s.log.Error("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(he.Status, he.response())
}

// handleError renders errors that reach echo, such as unmatched routes.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	_ = s.fail(c, err)
}
