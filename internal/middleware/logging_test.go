package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	original := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.Log = original })

	teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rr := httptest.NewRecorder()
	RequestLogger(teapot).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/messages", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/messages", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, rr.Header().Get(RequestIdHeader), entry["request_id"])
	assert.NotEmpty(t, entry["request_id"])
}
