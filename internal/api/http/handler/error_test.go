package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkosarev/bookstore-server/internal/model"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid argument", model.NewInvalidArgument("bad input"), http.StatusBadRequest, `{"error":"bad input"}`},
		{"conflict", model.NewConflict("username already exists"), http.StatusConflict, `{"error":"username already exists"}`},
		{"not found", model.ErrNotFound, http.StatusNotFound, `{"error":"not found"}`},
		{"invalid token", model.NewInvalidToken("invalid or expired token"), http.StatusBadRequest, `{"error":"invalid or expired token"}`},
		{"configuration", model.NewConfiguration("role missing"), http.StatusInternalServerError, `{"error":"role missing"}`},
		{"operation failed", model.NewOperationFailed("update did not apply"), http.StatusInternalServerError, `{"error":"update did not apply"}`},
		{"wrapped domain error", fmt.Errorf("outer: %w", model.NewConflict("email already exists")), http.StatusConflict, `{"error":"email already exists"}`},
		{"unclassified error", errors.New("pg: connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, handleError(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
