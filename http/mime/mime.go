package mime

import (
	"errors"
	"fmt"
	"strings"
)

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain"
	HTML        MIME = "text/html"
	XML         MIME = "text/xml"
	JSON        MIME = "application/json"
	PDF         MIME = "application/pdf"
	ZIP         MIME = "application/zip"
	CSS         MIME = "text/css"
	GIF         MIME = "image/gif"
	JPEG        MIME = "image/jpeg"
	PNG         MIME = "image/png"
	SVG         MIME = "image/svg+xml"
	ICO         MIME = "image/vnd.microsoft.icon"
	JS          MIME = "text/javascript"
)

var ErrUnknownExtension = errors.New("file extension has no content type")

// Table maps lowercase extensions (including the leading dot) to their MIME.
type Table map[string]MIME

// Defaults returns the table used unless the configuration provides its own.
func Defaults() Table {
	return Table{
		".css":  CSS,
		".gif":  GIF,
		".htm":  HTML,
		".html": HTML,
		".ico":  ICO,
		".jpeg": JPEG,
		".jpg":  JPEG,
		".js":   JS,
		".json": JSON,
		".pdf":  PDF,
		".php":  HTML,
		".png":  PNG,
		".svg":  SVG,
		".txt":  Plain,
		".xml":  XML,
		".zip":  ZIP,
	}
}

// Lookup returns the MIME registered for the extension. Unregistered extensions are
// a configuration error and are reported as such.
func (t Table) Lookup(ext string) (MIME, error) {
	mime, found := t[strings.ToLower(ext)]
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
	}

	return mime, nil
}

// Extension returns the lowercase extension of the path, taken after the last dot of the
// last path segment. Paths without a dot have the empty extension.
func Extension(path string) string {
	segment := path[strings.LastIndexByte(path, '/')+1:]
	dot := strings.LastIndexByte(segment, '.')
	if dot == -1 {
		return ""
	}

	return strings.ToLower(segment[dot:])
}
