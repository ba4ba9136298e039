package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Default resource paths of a salonsite server.
const (
	DefaultLoadPath = "/content.json"
	DefaultSavePath = "/api/save-content"
)

// maxRemoteBody bounds how much of a remote response is read.
const maxRemoteBody = 10 << 20

// SaveResponse is the body returned by the save endpoint.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RemoteStore talks to another salonsite server over HTTP.
type RemoteStore struct {
	base
	baseURL  string
	client   *http.Client
	loadPath string
	savePath string
}

// NewRemoteStore creates a store for the server at baseURL.
func NewRemoteStore(baseURL string, client *http.Client, opts ...Option) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteStore{
		base:     newBase("remote", opts),
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		loadPath: DefaultLoadPath,
		savePath: DefaultSavePath,
	}
}

func (s *RemoteStore) Load(ctx context.Context) content.Document {
	return s.Inspect(ctx).Document
}

func (s *RemoteStore) Inspect(ctx context.Context) LoadResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+s.loadPath, nil)
	if err != nil {
		return s.finish(ctx, LoadResult{Source: SourceUnreadable, Err: err})
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return s.finish(ctx, LoadResult{Source: SourceUnreadable, Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return s.finish(ctx, LoadResult{Source: SourceAbsent})
	}
	if resp.StatusCode != http.StatusOK {
		return s.finish(ctx, LoadResult{Source: SourceUnreadable, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)})
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return s.finish(ctx, LoadResult{Source: SourceUnreadable, Err: err})
	}
	doc, err := content.Decode(data)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryNotFound) {
			return s.finish(ctx, LoadResult{Source: SourceAbsent})
		}
		return s.finish(ctx, LoadResult{Source: SourceMalformed, Err: err})
	}
	return s.finish(ctx, LoadResult{Document: doc, Source: SourceStored})
}

// Save posts doc to the remote server. Unreachable servers and 5xx responses
// are retried under the store's retry policy.
func (s *RemoteStore) Save(ctx context.Context, doc content.Document) error {
	return s.saved(ctx, s.retry.Do(ctx, func(ctx context.Context) error { return s.post(ctx, doc) }))
}

func (s *RemoteStore) post(ctx context.Context, doc content.Document) error {
	fail := func(cause error, message string) error {
		return errors.WrapError(cause, errors.CategoryWriteFailed, message).
			UserAction().
			WithContext("url", s.baseURL+s.savePath).
			Build()
	}
	body, err := content.Encode(doc)
	if err != nil {
		return fail(err, "encode content")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+s.savePath, bytes.NewReader(body))
	if err != nil {
		return fail(err, "build save request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return errors.WrapError(err, errors.CategoryWriteFailed, "send save request").
			Retryable().
			WithContext("url", s.baseURL+s.savePath).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	var out SaveResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteBody)).Decode(&out)
	if resp.StatusCode/100 != 2 || decodeErr != nil || !out.Success {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("save rejected with status %d", resp.StatusCode)
		}
		b := errors.WriteFailedError(msg).
			WithContext("status", resp.StatusCode).
			WithContext("url", s.baseURL+s.savePath)
		if resp.StatusCode >= http.StatusInternalServerError {
			b = b.Retryable()
		}
		return b.Build()
	}
	return nil
}
