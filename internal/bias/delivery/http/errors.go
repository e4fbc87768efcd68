package http

import (
	"errors"
	"net/http"

	"golang-fundamental-bias/internal/bias/dto"

	"github.com/labstack/echo/v4"
)

// writeError maps service errors onto HTTP status codes.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, dto.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, dto.ErrUnknownMode):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
