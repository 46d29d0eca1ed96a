package apierrors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTP maps a service error onto an echo HTTP error. Anything outside the
// taxonomy becomes an opaque 500; callers log the original error themselves.
func ToHTTP(err error) *echo.HTTPError {
	if ve := AsValidation(err); ve != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ve.Error())
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
}
