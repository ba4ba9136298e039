// Package site embeds the stock page, the editor page and their static assets.
package site

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// Page names.
const (
	IndexPage  = "index.html"
	EditorPage = "editor.html"
)

// PreviewScript is injected into preview renderings so they reload on every preview message.
const PreviewScript = "/js/preview.js"

// FS returns the embedded asset tree rooted at the site directory.
func FS() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page returns the contents of a page from dir, falling back to the embedded copy
// when dir is empty or does not contain the page.
func Page(dir, name string) ([]byte, error) {
	if dir != "" {
		if b, err := readDir(dir, name); err == nil {
			return b, nil
		}
	}
	return fs.ReadFile(FS(), name)
}
