package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-midea/mailer/internal/services"
	"github.com/labstack/echo/v4"
)

// finderError maps finder failures onto HTTP statuses
func finderError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnknownFrequency):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRunInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
