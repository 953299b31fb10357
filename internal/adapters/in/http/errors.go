package http

import (
	"errors"
	"net/http"

	"catering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the JSON body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, Error{Code: code, Message: message})
}

// statusOf maps lookup and validation errors to client errors; everything else
// is a server error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
