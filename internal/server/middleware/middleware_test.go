package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
)

type routeRecorder struct {
	metrics.NoopRecorder
	routes   []string
	statuses []int
}

func (r *routeRecorder) ObserveHTTPRequest(route string, status int, _ time.Duration) {
	r.routes = append(r.routes, route)
	r.statuses = append(r.statuses, status)
}

func newRouter(t *testing.T, logs *bytes.Buffer, rec metrics.Recorder) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	r := chi.NewRouter()
	r.Use(Chain(logger, errors.NewHTTPErrorAdapter(logger), rec)...)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	return r
}

func TestChain_LogsAndRecordsRoutePattern(t *testing.T) {
	var logs bytes.Buffer
	rec := &routeRecorder{}
	r := newRouter(t, &logs, rec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, []string{"/items/{id}"}, rec.routes)
	assert.Equal(t, []int{http.StatusTeapot}, rec.statuses)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "/items/42", entry["path"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestChain_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	r := newRouter(t, &logs, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body errors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, logs.String(), "HTTP handler panic")
}
