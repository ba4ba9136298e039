package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/salonsite/internal/config"
	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/contentstore"
	"git.home.luguber.info/inful/salonsite/internal/eventstore"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/history"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
	"git.home.luguber.info/inful/salonsite/internal/preview"
	"git.home.luguber.info/inful/salonsite/internal/server/responses"
)

var discard = slog.New(slog.DiscardHandler)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Content.Backend = config.BackendMemory
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, store contentstore.Store, opts ...Option) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	if store == nil {
		store = contentstore.NewKVStore(contentstore.NewMemoryKV(), "memory", "")
	}
	s, err := New(t.Context(), cfg, store, append([]Option{WithLogger(discard)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeAPI(t *testing.T, w *httptest.ResponseRecorder) responses.APIResponse {
	t.Helper()
	var resp responses.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIndex_RendersStoredDocument(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := do(t, s, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Salon Premium</title>")
	assert.NotContains(t, w.Body.String(), "/js/preview.js")
}

func TestSaveContent_RoundTrip(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := do(t, s, http.MethodPost, "/api/save-content",
		strings.NewReader(`{"site":{"title":"Chez Awa"}}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAPI(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, msgSaved, resp.Message)

	w = do(t, s, http.MethodGet, "/content.json", nil, "")
	doc, err := content.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Chez Awa", doc.Site.Title.UnwrapOr(""))

	w = do(t, s, http.MethodGet, "/", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Chez Awa</title>")

	w = do(t, s, http.MethodGet, "/api/load-content", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Chez Awa")
}

func TestSaveContent_RejectsMalformed(t *testing.T) {
	s := newTestServer(t, nil, nil)

	for _, body := range []string{"not json", "[1,2]", `"text"`} {
		w := do(t, s, http.MethodPost, "/api/save-content", strings.NewReader(body), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.False(t, decodeAPI(t, w).Success)
	}
}

func TestSaveContent_BodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	s := newTestServer(t, cfg, nil)

	w := do(t, s, http.MethodPost, "/api/save-content",
		strings.NewReader(`{"site":{"title":"far too long for the limit"}}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingStore struct{}

func (failingStore) Load(context.Context) content.Document { return content.Default() }
func (failingStore) Save(context.Context, content.Document) error {
	return errors.WriteFailedError("save content").Build()
}

func TestSaveContent_WriteFailure(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	journal := eventstore.NewJournal(store, eventstore.NewActivityProjection(store, 10), discard)

	s := newTestServer(t, nil, failingStore{}, WithJournal(journal))

	w := do(t, s, http.MethodPost, "/api/save-content", strings.NewReader(`{}`), "application/json")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeAPI(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, msgSaveFailed, resp.Message)
	assert.Equal(t, responses.TypeError, resp.Type)
	assert.Equal(t, 1, journal.Summary().SaveFailures)
}

func TestLoadContent_FailureWhenFileMissing(t *testing.T) {
	store := contentstore.NewFileStore(filepath.Join(t.TempDir(), "content.json"))
	s := newTestServer(t, nil, store)

	w := do(t, s, http.MethodGet, "/api/load-content", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeAPI(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, msgLoadFailed, resp.Message)
}

func TestLoadContent_FailureWhenFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(path, []byte("not json {"), 0o600))
	s := newTestServer(t, nil, contentstore.NewFileStore(path))

	w := do(t, s, http.MethodGet, "/api/load-content", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeAPI(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, msgLoadFailed, resp.Message)
	assert.NotContains(t, w.Body.String(), "not json")
}

func TestPreview_JSONUpdatesPreviewPage(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := do(t, s, http.MethodPost, "/api/preview",
		strings.NewReader(`{"site":{"title":"Aperçu Awa"}}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	var resp responses.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.MessageID)

	w = do(t, s, http.MethodGet, "/preview", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Aperçu Awa</title>")
	assert.Contains(t, w.Body.String(), `src="/js/preview.js"`)

	// Previewing never persists.
	w = do(t, s, http.MethodGet, "/", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Salon Premium</title>")
}

func TestPreviewForm_UpdatesSessionAndEditor(t *testing.T) {
	s := newTestServer(t, nil, nil)

	form := url.Values{"site_title": {"Salon Form"}, "primary_color": {"#112233"}}
	w := do(t, s, http.MethodPost, "/api/preview/form",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/preview", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Salon Form</title>")

	w = do(t, s, http.MethodGet, "/editor", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Salon Form"`)
	assert.Contains(t, w.Body.String(), `value="#112233"`)
}

func TestSaveForm_Persists(t *testing.T) {
	s := newTestServer(t, nil, nil)

	form := url.Values{"site_title": {"Salon Sauvé"}, "hours": {"Lun-Sam 9h-19h"}}
	w := do(t, s, http.MethodPost, "/api/save-form",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeAPI(t, w).Success)

	w = do(t, s, http.MethodGet, "/content.json", nil, "")
	doc, err := content.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Salon Sauvé", doc.Site.Title.UnwrapOr(""))
	assert.Equal(t, "Lun-Sam 9h-19h", doc.Contact.Hours.UnwrapOr(""))
}

func TestReset_PushesDefaultWithoutSaving(t *testing.T) {
	store := contentstore.NewKVStore(contentstore.NewMemoryKV(), "memory", "")
	saved := content.Default()
	saved.Site.Title = content.Str("Custom")
	require.NoError(t, store.Save(t.Context(), saved))
	s := newTestServer(t, nil, store)

	w := do(t, s, http.MethodPost, "/api/reset", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAPI(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, responses.TypeInfo, resp.Type)
	assert.Equal(t, msgReset, resp.Message)

	w = do(t, s, http.MethodGet, "/preview", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Salon Premium</title>")
	assert.Equal(t, "Custom", store.Load(t.Context()).Site.Title.UnwrapOr(""))
}

func multipartUpload(t *testing.T, filename string, data []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadImage_SetsBackground(t *testing.T) {
	s := newTestServer(t, nil, nil)

	body, ct := multipartUpload(t, "salon.png", pngHeader, nil)
	w := do(t, s, http.MethodPost, "/api/upload-image", body, ct)
	require.Equal(t, http.StatusOK, w.Code)

	var resp responses.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, content.PathHeroBackground, resp.Field)
	assert.True(t, strings.HasPrefix(resp.DataURI, "data:image/png;base64,"))

	w = do(t, s, http.MethodGet, "/preview", nil, "")
	assert.Contains(t, w.Body.String(), "data:image/png;base64,")
}

func TestUploadImage_Rejections(t *testing.T) {
	s := newTestServer(t, nil, nil)

	body, ct := multipartUpload(t, "notes.txt", []byte("plain text"), nil)
	w := do(t, s, http.MethodPost, "/api/upload-image", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartUpload(t, "salon.png", pngHeader, map[string]string{"path": "hero.nope"})
	w = do(t, s, http.MethodPost, "/api/upload-image", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/upload-image", strings.NewReader(""), "multipart/form-data; boundary=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := do(t, s, http.MethodGet, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=salon-premium-site.json`, w.Header().Get("Content-Disposition"))
	var files map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	assert.Contains(t, files["index.html"], "<title>Salon Premium</title>")
	assert.Contains(t, files["content.json"], `"title": "Salon Premium"`)

	w = do(t, s, http.MethodGet, "/api/export?format=zip", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))

	w = do(t, s, http.MethodGet, "/api/export?format=rar", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := do(t, s, http.MethodGet, "/api/history", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	repo, err := history.Open(filepath.Join(t.TempDir(), "history"), "", history.Author{}, discard)
	require.NoError(t, err)
	s = newTestServer(t, nil, nil, WithHistory(repo))

	w = do(t, s, http.MethodPost, "/api/save-content", strings.NewReader(`{"site":{"title":"V1"}}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/history?limit=5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp responses.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)

	data, err := repo.Show(resp.Entries[0].Hash)
	require.NoError(t, err)
	assert.Contains(t, string(data), "V1")

	w = do(t, s, http.MethodGet, "/api/history?limit=zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivity(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	journal := eventstore.NewJournal(store, eventstore.NewActivityProjection(store, 10), discard)
	s := newTestServer(t, nil, nil, WithJournal(journal))

	do(t, s, http.MethodPost, "/api/save-content", strings.NewReader(`{}`), "application/json")
	do(t, s, http.MethodPost, "/api/reset", nil, "")

	w := do(t, s, http.MethodGet, "/api/events", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp responses.ActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Activity.Saves)
	assert.Equal(t, 1, resp.Activity.Resets)
	assert.Equal(t, 1, resp.Activity.Previews)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := do(t, s, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Page non trouvée", w.Body.String())

	cfg := testConfig()
	cfg.Server.NotFound = config.NotFoundIndex
	s = newTestServer(t, cfg, nil)
	w = do(t, s, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Salon Premium</title>")
}

func TestStaticAndOps(t *testing.T) {
	reg := metrics.NewRegistry()
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	s := newTestServer(t, cfg, nil, WithRegistry(reg), WithRecorder(metrics.NewPrometheusRecorder(reg)))

	w := do(t, s, http.MethodGet, "/css/site.css", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodGet, "/images/coupe.svg", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var health responses.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.PreviewReady)

	w = do(t, s, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "salonsite_http_request_duration_seconds")
}

func TestPreviewEvents_StreamBroadcasts(t *testing.T) {
	s := newTestServer(t, nil, nil)
	ts := httptest.NewServer(s)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/preview/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	reader := bufio.NewReader(resp.Body)

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	post, err := http.Post(ts.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	_ = post.Body.Close()

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			break
		}
	}
	var msg preview.Message
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &msg))
	assert.Equal(t, preview.KindReset, msg.Type)
}

type loopback struct {
	dst preview.Sender
}

func (l *loopback) Send(ctx context.Context, msg preview.Message) { l.dst.Send(ctx, msg) }
func (l *loopback) Subscribe(dst preview.Sender) (func() error, error) {
	l.dst = dst
	return func() error { return nil }, nil
}

func TestPreviewTransport_DeliversThroughSubscription(t *testing.T) {
	lb := &loopback{}
	s := newTestServer(t, nil, nil, WithPreviewTransport(lb))
	require.NotNil(t, lb.dst)

	do(t, s, http.MethodPost, "/api/preview", strings.NewReader(`{"site":{"title":"Via NATS"}}`), "application/json")

	w := do(t, s, http.MethodGet, "/preview", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Via NATS</title>")
}

func TestContentChanged_PushesStoredDocument(t *testing.T) {
	store := contentstore.NewKVStore(contentstore.NewMemoryKV(), "memory", "")
	s := newTestServer(t, nil, store)

	doc := content.Default()
	doc.Site.Title = content.Str("Edited Elsewhere")
	require.NoError(t, store.Save(t.Context(), doc))
	s.ContentChanged(t.Context())

	w := do(t, s, http.MethodGet, "/preview", nil, "")
	assert.Contains(t, w.Body.String(), "<title>Edited Elsewhere</title>")
	w = do(t, s, http.MethodGet, "/editor", nil, "")
	assert.Contains(t, w.Body.String(), `value="Edited Elsewhere"`)
}
