package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkosarev/bookstore-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusFromKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidArgument:
		return http.StatusBadRequest
	case model.KindConflict:
		return http.StatusConflict
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindInvalidToken:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError maps a domain error to a status code and a structured
// body. Unclassified errors are hidden behind a generic 500.
func handleError(c echo.Context, err error) error {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return c.JSON(statusFromKind(domainErr.Kind), errorResponse{Error: domainErr.Message})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
