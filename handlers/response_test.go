package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"sophia/api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func recordServiceError(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondServiceError(c, err)
	return w
}

func TestRespondServiceError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrAlreadyExists, http.StatusConflict},
		{services.ErrNotConfigured, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := recordServiceError(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.NotEmpty(t, body["message"])
	}
}

func TestRespondServiceError_WrappedErrors(t *testing.T) {
	wrapped := recordServiceError(errors.Join(errors.New("context"), services.ErrNotConfigured))
	assert.Equal(t, http.StatusBadRequest, wrapped.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(wrapped.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "not configured")
}

func TestRespondOK_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondOK(c, gin.H{"value": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
}
