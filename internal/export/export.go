// Package export bundles the current content document with the page it renders to.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Bundle file names.
const (
	ContentFile = "content.json"
	PageFile    = "index.html"
)

// Format selects the bundle encoding.
type Format string

const (
	// FormatJSON is a single JSON object mapping file names to file contents.
	FormatJSON Format = "json"
	FormatZip  Format = "zip"
)

const fallbackStem = "salon-premium"

// Bundle is an exported site.
type Bundle struct {
	Title   string
	Content []byte
	Page    []byte
}

// New builds a bundle for doc. page is the rendered main page.
func New(doc content.Document, page []byte) (Bundle, error) {
	data, err := doc.MarshalIndent()
	if err != nil {
		return Bundle{}, errors.WrapError(err, errors.CategoryInternal, "encode content for export").Build()
	}
	title := ""
	if doc.Site != nil {
		title = doc.Site.Title.UnwrapOr("")
	}
	return Bundle{Title: title, Content: data, Page: page}, nil
}

// Filename is the download name for the bundle in format f.
func (b Bundle) Filename(f Format) string {
	stem := Slug(b.Title)
	if stem == "" {
		stem = fallbackStem
	}
	ext := ".json"
	if f == FormatZip {
		ext = ".zip"
	}
	return stem + "-site" + ext
}

// ContentType returns the MIME type for format f.
func ContentType(f Format) string {
	if f == FormatZip {
		return "application/zip"
	}
	return "application/json"
}

// WriteTo encodes the bundle to w in format f.
func (b Bundle) WriteTo(w io.Writer, f Format) error {
	switch f {
	case FormatZip:
		return b.writeZip(w)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			ContentFile: string(b.Content),
			PageFile:    string(b.Page),
		})
	default:
		return errors.ValidationError("unknown export format").WithContext("format", string(f)).Build()
	}
}

func (b Bundle) writeZip(w io.Writer) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range []struct {
		name string
		data []byte
	}{{ContentFile, b.Content}, {PageFile, b.Page}} {
		fw, err := zw.Create(f.name)
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "create zip entry").Build()
		}
		if _, err := fw.Write(f.data); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "write zip entry").Build()
		}
	}
	if err := zw.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "finish zip").Build()
	}
	_, err := buf.WriteTo(w)
	return err
}
