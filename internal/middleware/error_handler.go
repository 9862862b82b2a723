package middleware

import (
	"net/http"

	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
	"github.com/labstack/echo/v4"
)

// NewErrorHandler renders every error as JSON. Unexpected errors are logged
// and their text is not sent to the client.
func NewErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he, ok := err.(*echo.HTTPError)
		if !ok {
			log.Error("unhandled error",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"message": http.StatusText(http.StatusInternalServerError)})
			return
		}

		if he.Code >= http.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", he.Code,
				"error", he.Message,
			)
		}

		switch m := he.Message.(type) {
		case string:
			_ = c.JSON(he.Code, map[string]string{"message": m})
		case map[string]string:
			_ = c.JSON(he.Code, m)
		case error:
			_ = c.JSON(he.Code, map[string]string{"message": m.Error()})
		default:
			_ = c.JSON(he.Code, map[string]string{"message": http.StatusText(he.Code)})
		}
	}
}

// FieldError builds a 422 whose body names the offending field.
func FieldError(field, message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
		"message": message,
		"field":   field,
	})
}
