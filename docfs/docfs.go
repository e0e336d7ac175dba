// Package docfs resolves request paths against the document root and wraps the few
// filesystem operations the server needs.
package docfs

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type Entry struct {
	Name  string
	IsDir bool
}

// Root is the document root. Every path handed to its methods is a request path (slash
// separated, relative to the root) and can never escape the root.
type Root struct {
	abs string
}

func New(root string) (Root, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Root{}, fmt.Errorf("document root %s: %w", root, err)
	}

	return Root{abs: filepath.Clean(abs)}, nil
}

// Abs returns the absolute path of the document root.
func (r Root) Abs() string {
	return r.abs
}

// Resolve maps a request path onto the filesystem. The query is cut off, percent-encoded
// sequences are decoded and dot-segments are collapsed so the result stays inside the root.
func (r Root) Resolve(requestPath string) string {
	return filepath.Join(r.abs, filepath.FromSlash(Clean(requestPath)))
}

// Clean normalizes the request path into a rooted, slash-separated path.
func Clean(requestPath string) string {
	if query := strings.IndexByte(requestPath, '?'); query != -1 {
		requestPath = requestPath[:query]
	}

	if decoded, err := url.PathUnescape(requestPath); err == nil {
		requestPath = decoded
	}

	return path.Clean("/" + requestPath)
}

// Exists tells whether a regular file exists at the request path.
func (r Root) Exists(requestPath string) bool {
	return IsFile(r.Resolve(requestPath))
}

// ReadFile returns the content of the document at the request path.
func (r Root) ReadFile(requestPath string) ([]byte, error) {
	return os.ReadFile(r.Resolve(requestPath))
}

// ListDir lists immediate children of the directory at the request path, sorted by name.
func (r Root) ListDir(requestPath string) ([]Entry, error) {
	return ListDir(r.Resolve(requestPath))
}

// IsFile tells whether a regular file exists at the filesystem path.
func IsFile(name string) bool {
	stat, err := os.Stat(name)
	return err == nil && stat.Mode().IsRegular()
}

// IsDir tells whether a directory exists at the filesystem path.
func IsDir(name string) bool {
	stat, err := os.Stat(name)
	return err == nil && stat.IsDir()
}

func ListDir(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			isDir = IsDir(filepath.Join(dir, entry.Name()))
		}

		entries = append(entries, Entry{
			Name:  entry.Name(),
			IsDir: isDir,
		})
	}

	return entries, nil
}
