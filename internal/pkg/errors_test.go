package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfAndStatus(t *testing.T) {
	tests := []struct {
		err    error
		kind   Kind
		status int
	}{
		{FieldError("name", "name is required"), KindValidation, http.StatusBadRequest},
		{Unauthorized("no"), KindUnauthorized, http.StatusUnauthorized},
		{Forbidden("no"), KindForbidden, http.StatusForbidden},
		{NotFound("no"), KindNotFound, http.StatusNotFound},
		{Conflict("no"), KindConflict, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", NotFound("no")), KindNotFound, http.StatusNotFound},
		{errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, StatusOf(KindOf(tt.err)))
		})
	}
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	q := PageQuery{Page: 1, PerPage: 10}
	Success(c, 0, "ok", gin.H{"items": []int{1, 2}}, NewPagination(2, q, 2))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "ok", body["message"])
	assert.Contains(t, body, "data")
	page := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, page["total"])
	assert.EqualValues(t, 1, page["from"])
	assert.NotContains(t, body, "errors")
}

func TestSuccessWithoutDataStillHasObject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, "created", nil, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"created","data":{}}`, w.Body.String())
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, 0, "invalid params", map[string][]string{"name": {"name is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"invalid params","errors":{"name":["name is required"]}}`, w.Body.String())
}
