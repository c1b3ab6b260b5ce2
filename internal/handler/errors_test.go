package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mizan/internal/auth"
	"mizan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{&service.NotFoundError{Entity: service.EntityAction, ID: 3}, http.StatusNotFound, `{"error":"action not found"}`},
		{fmt.Errorf("wrapped: %w", &service.NotFoundError{Entity: service.EntityUser}), http.StatusNotFound, `{"error":"user not found"}`},
		{&service.ValidationError{Field: "date", Message: "bad"}, http.StatusBadRequest, `{"error":"date: bad"}`},
		{service.ErrEmailExists, http.StatusConflict, `{"error":"email already registered"}`},
		{service.ErrInvalidCreds, http.StatusUnauthorized, `{"error":"invalid username or password"}`},
		{auth.ErrInvalidToken, http.StatusUnauthorized, `{"error":"invalid token"}`},
		{errors.New("connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.New(core), tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, 1, logs.Len())
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}
