package contentstore

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// FileStore keeps the document in a JSON file. Concurrent saves are last-write-wins.
// A malformed file is left in place: it belongs to the operator.
type FileStore struct {
	base
	path string
}

func NewFileStore(path string, opts ...Option) *FileStore {
	return &FileStore{base: newBase("file", opts), path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) content.Document {
	return s.Inspect(ctx).Document
}

func (s *FileStore) Inspect(ctx context.Context) LoadResult {
	data, err := os.ReadFile(s.path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return s.finish(ctx, LoadResult{Source: SourceAbsent})
	case err != nil:
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

// Raw returns the file contents as stored.
func (s *FileStore) Raw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read content file").
			WithContext("path", s.path).Build()
	}
	return data, nil
}

func (s *FileStore) Save(ctx context.Context, doc content.Document) error {
	return s.saved(ctx, s.write(doc))
}

func (s *FileStore) write(doc content.Document) error {
	data, err := doc.MarshalIndent()
	if err != nil {
		return errors.WrapError(err, errors.CategoryWriteFailed, "encode content").Build()
	}
	data = append(data, '\n')

	fail := func(err error) error {
		return errors.WrapError(err, errors.CategoryWriteFailed, "write content file").
			UserAction().
			WithContext("path", s.path).
			Build()
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fail(err)
	}
	tmp, err := os.CreateTemp(dir, ".content-*.json")
	if err != nil {
		return fail(err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fail(err)
	}
	return nil
}
