package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	t.Run("FastHandlerPassesThrough", func(t *testing.T) {
		handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Probe", "yes")
			RespondJSON(w, http.StatusCreated, map[string]string{"status": "done"})
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "yes", rec.Header().Get("X-Probe"))

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "done", body["status"])
	})

	t.Run("SlowHandlerGets408", func(t *testing.T) {
		release := make(chan struct{})
		handler := Timeout(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		close(release)

		assert.Equal(t, http.StatusRequestTimeout, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Request timeout", body["message"])
	})

	t.Run("LateWriteAfterTimeoutDiscarded", func(t *testing.T) {
		release := make(chan struct{})
		wrote := make(chan error, 1)
		handler := Timeout(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
			_, err := w.Write([]byte("too late"))
			wrote <- err
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		close(release)

		assert.Equal(t, http.StatusRequestTimeout, rec.Code)
		assert.Equal(t, http.ErrHandlerTimeout, <-wrote)
		assert.NotContains(t, rec.Body.String(), "too late")
	})
}
