package site

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

func readDir(dir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, filepath.Clean("/"+name)))
}

// Assets returns the static file tree: files under dir when set, with the embedded
// copy answering for anything dir lacks.
func Assets(dir string) fs.FS {
	if dir == "" {
		return FS()
	}
	return overlay{primary: os.DirFS(dir), fallback: FS()}
}

type overlay struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return f, err
}
