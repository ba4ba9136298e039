// Package history keeps every saved content document as a commit in a local git repository.
package history

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

// DefaultFile is the name of the tracked document inside the repository.
const DefaultFile = "content.json"

// Author identifies who commits are attributed to.
type Author struct {
	Name  string
	Email string
}

// Entry is one commit of the content file.
type Entry struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	When    time.Time `json:"when"`
}

// Repo is a git repository holding a single content file.
type Repo struct {
	mu     sync.Mutex
	repo   *git.Repository
	dir    string
	file   string
	author Author
	logger *slog.Logger
}

// Open opens the repository at dir, initialising it when it does not exist yet.
func Open(dir, file string, author Author, logger *slog.Logger) (*Repo, error) {
	if file == "" {
		file = DefaultFile
	}
	if author.Name == "" {
		author = Author{Name: "salonsite", Email: "salonsite@localhost"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	repo, err := git.PlainOpen(dir)
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return nil, errors.WrapError(mkErr, errors.CategoryFileSystem, "create history directory").
				WithContext("path", dir).Build()
		}
		repo, err = git.PlainInit(dir, false)
		if err == nil {
			logger.Info("Initialised content history", logfields.Path(dir))
		}
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open history repository").
			WithContext("path", dir).Build()
	}
	return &Repo{repo: repo, dir: dir, file: file, author: author, logger: logger}, nil
}

// Commit writes data as the content file and commits it. When data equals the
// committed version no commit is made and the current head is returned.
func (r *Repo) Commit(data []byte, message string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.WriteFile(filepath.Join(r.dir, r.file), data, 0o600); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "write history file").
			WithContext("path", r.file).Build()
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", gitError(err, "open worktree")
	}
	if _, err := wt.Add(r.file); err != nil {
		return "", gitError(err, "stage content file")
	}
	status, err := wt.Status()
	if err != nil {
		return "", gitError(err, "read worktree status")
	}
	if status.IsClean() {
		head, headErr := r.repo.Head()
		if headErr != nil {
			return "", gitError(headErr, "resolve head")
		}
		return head.Hash().String(), nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: r.author.Name, Email: r.author.Email, When: time.Now()},
	})
	if err != nil {
		return "", gitError(err, "commit content")
	}
	r.logger.Debug("Committed content", logfields.Commit(hash.String()))
	return hash.String(), nil
}

// Log returns up to limit commits that touched the content file, newest first.
func (r *Repo) Log(limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.repo.Head(); stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return []Entry{}, nil
	}
	file := r.file
	iter, err := r.repo.Log(&git.LogOptions{FileName: &file})
	if err != nil {
		return nil, gitError(err, "read history")
	}
	defer iter.Close()

	entries := []Entry{}
	for limit <= 0 || len(entries) < limit {
		c, err := iter.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, gitError(err, "walk history")
		}
		entries = append(entries, Entry{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
	}
	return entries, nil
}

// Show returns the content file as of commit hash.
func (r *Repo) Show(hash string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, err := r.repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "resolve revision").
			WithContext("revision", hash).Build()
	}
	c, err := r.repo.CommitObject(*rev)
	if err != nil {
		return nil, gitError(err, "load commit")
	}
	f, err := c.File(r.file)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "content file not in commit").
			WithContext("revision", hash).Build()
	}
	s, err := f.Contents()
	if err != nil {
		return nil, gitError(err, "read content file")
	}
	return []byte(s), nil
}

func gitError(err error, msg string) error {
	return errors.WrapError(err, errors.CategoryGit, msg).Build()
}
