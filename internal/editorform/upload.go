package editorform

import (
	"encoding/base64"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// DataURI encodes an uploaded image inline. The media type is sniffed from the
// bytes, falling back to the file extension.
func DataURI(data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.ValidationError("uploaded file is empty").Build()
	}
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); strings.HasPrefix(byExt, "image/") {
			mediaType = byExt
		}
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", errors.ValidationError("uploaded file is not an image").
			WithContext("filename", filename).
			WithContext("type", mediaType).
			Build()
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
