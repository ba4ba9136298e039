package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapError(cause, CategoryWriteFailed, "save content").
		WithContext("backend", "file").
		Build()

	assert.Equal(t, CategoryWriteFailed, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, "save content", err.Message())
	assert.ErrorIs(t, err, cause)

	backend, ok := err.Context().GetString("backend")
	require.True(t, ok)
	assert.Equal(t, "file", backend)
	assert.Contains(t, err.Error(), "[write_failed:error] save content: disk full")
}

func TestConvenienceConstructors(t *testing.T) {
	assert.Equal(t, SeverityWarning, MalformedContentError("bad json").Build().Severity())
	assert.Equal(t, RetryUserAction, WriteFailedError("nope").Build().RetryStrategy())
	assert.True(t, NetworkError("down").Build().CanRetry())
	assert.False(t, ConfigError("bad").Build().CanRetry())
	assert.Equal(t, CategorySelectorInvalid, SelectorError("p[").Build().Category())
}

func TestAsClassifiedFollowsWrapChain(t *testing.T) {
	inner := NewError(CategoryNotFound, "missing").Build()
	wrapped := fmt.Errorf("load: %w", inner)

	c, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryNotFound, c.Category())
	assert.True(t, HasCategory(wrapped, CategoryNotFound))
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestIsComparesCategoryAndMessage(t *testing.T) {
	a := NewError(CategoryValidation, "x").Build()
	b := NewError(CategoryValidation, "x").WithContext("k", 1).Build()
	c := NewError(CategoryConfig, "x").Build()
	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestContextMerge(t *testing.T) {
	var nilCtx ErrorContext
	other := ErrorContext{"a": 1}
	assert.Equal(t, other, nilCtx.Merge(other))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
}

func TestHTTPErrorAdapter(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.New(slog.DiscardHandler))

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", ValidationError("bad body").Build(), http.StatusBadRequest},
		{"not found", NewError(CategoryNotFound, "gone").Build(), http.StatusNotFound},
		{"network", NetworkError("nats down").Build(), http.StatusBadGateway},
		{"write failed", WriteFailedError("disk").Build(), http.StatusInternalServerError},
		{"plain", stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.New(slog.DiscardHandler))
	req := httptest.NewRequest(http.MethodPost, "/api/save-content", nil)
	rec := httptest.NewRecorder()

	adapter.WriteErrorResponse(rec, req, WriteFailedError("Erreur lors de la sauvegarde").
		WithContext("backend", "file").Build())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Erreur lors de la sauvegarde", body.Message)
	assert.Equal(t, "write_failed", body.Code)
	assert.Equal(t, "file", body.Details["backend"])
}

func TestCLIErrorAdapter(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.New(slog.DiscardHandler))
	var out bytes.Buffer

	code := adapter.Report(&out, ConfigError("missing content path").Build())
	assert.Equal(t, 7, code)
	assert.Equal(t, "Error: missing content path\n", out.String())

	assert.Equal(t, 0, adapter.Report(&out, nil))
	assert.Equal(t, 1, adapter.ExitCodeFor(stderrors.New("x")))
	assert.Equal(t, 11, adapter.ExitCodeFor(WriteFailedError("x").Build()))
}
