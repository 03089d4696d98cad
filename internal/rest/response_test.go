package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/video-sharing-platform/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respond(c, http.StatusCreated, gin.H{"id": "abc"}, "created")

	resp := decodeResponse(t, w)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.Success)
	assert.Equal(t, "created", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", fmt.Errorf("service/x/Op: name is required: %w", service.ErrInvalidInput), http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("service/x/Op: %w", service.ErrUnauthorized), http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("service/x/Op: %w", service.ErrForbidden), http.StatusForbidden},
		{"not found", fmt.Errorf("service/x/Op: no video found: %w", service.ErrNotFound), http.StatusNotFound},
		{"internal", fmt.Errorf("service/x/Op: %w", service.ErrInternal), http.StatusInternalServerError},
		{"unknown error collapses to 500", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			resp := decodeResponse(t, w)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Data)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("service/video/Publish: %w", service.ErrInternal))

	resp := decodeResponse(t, w)
	assert.Equal(t, "something went wrong", resp.Message)
	assert.NotContains(t, resp.Message, "service/")
}

func TestTrimOp(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "drops op prefix and sentinel",
			err:  fmt.Errorf("service/playlist/Create: name is required: %w", service.ErrInvalidInput),
			want: "name is required",
		},
		{
			name: "bare sentinel keeps its own text",
			err:  service.ErrNotFound,
			want: "resource not found",
		},
		{
			name: "no op prefix",
			err:  fmt.Errorf("no video found: %w", service.ErrNotFound),
			want: "no video found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trimOp(tt.err))
		})
	}
}
