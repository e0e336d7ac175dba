// Package auth implements per-directory HTTP Basic authentication. A directory holding a
// .htpasswd file protects itself and all of its descendants, unless a descendant holds a
// closer one.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/indigo-web/hostd/docfs"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"golang.org/x/crypto/bcrypt"
)

const (
	CredentialFile = ".htpasswd"
	basicScheme    = "Basic "
)

var ErrNotProtected = errors.New("document is not protected")

// Resolver finds and checks credential files of documents under the root.
type Resolver struct {
	root string
}

// NewResolver returns a resolver for the absolute document root.
func NewResolver(root string) Resolver {
	return Resolver{root: filepath.Clean(root)}
}

// Locate returns the credential file protecting the document: the one in the closest
// ancestor directory, walking up from the document's parent to the root, the root itself
// excluded. Directories are compared by their absolute paths, so directories sharing a
// name with the root do not stop the walk.
func (r Resolver) Locate(document string) (credentials string, found bool) {
	dir := filepath.Dir(filepath.Clean(document))

	for r.isBelowRoot(dir) {
		credentials = filepath.Join(dir, CredentialFile)
		if docfs.IsFile(credentials) {
			return credentials, true
		}

		dir = filepath.Dir(dir)
	}

	return "", false
}

func (r Resolver) isBelowRoot(dir string) bool {
	rel, err := filepath.Rel(r.root, dir)
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Validate checks the Authorization header value against the credential file protecting
// the document.
func (r Resolver) Validate(document, authorization string) (bool, error) {
	credentials, found := r.Locate(document)
	if !found {
		return false, ErrNotProtected
	}

	content, err := os.ReadFile(credentials)
	if err != nil {
		return false, fmt.Errorf("read credentials: %w", err)
	}

	return Match(uf.B2S(content), authorization), nil
}

// Match tells whether the Basic credentials authorize access per the credential file
// content. A line authorizes if it equals either the transmitted token or its decoded
// user:password form, or if it's a user:bcrypt-hash line matching the decoded password.
func Match(content, authorization string) bool {
	if len(authorization) < len(basicScheme) ||
		!strcomp.EqualFold(authorization[:len(basicScheme)], basicScheme) {
		return false
	}

	token := strings.TrimSpace(authorization[len(basicScheme):])
	if len(token) == 0 {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(token)
	validBase64 := err == nil

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}

		if line == token {
			return true
		}

		if validBase64 && (line == string(decoded) || matchHash(line, string(decoded))) {
			return true
		}
	}

	return false
}

func matchHash(line, decoded string) bool {
	user, hash, found := strings.Cut(line, ":")
	if !found || !strings.HasPrefix(hash, "$2") {
		return false
	}

	gotUser, password, found := strings.Cut(decoded, ":")
	if !found || gotUser != user {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
