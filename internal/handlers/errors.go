package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders domain errors as {"detail": message} with the
// status their code maps to. Anything else falls back to echo's handler.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) {
			c.Logger().Error(err)
		}
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}

	status := apperrors.HTTPStatus(appErr.Code)
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
		message = http.StatusText(status)
	}

	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, echo.Map{"detail": message})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// postIDParam parses the :id path parameter.
func postIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("Invalid post ID", err)
	}
	return uint(id), nil
}

// bind decodes and validates a request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request payload", err)
	}
	return c.Validate(req)
}
