// Package virtual maps hosts onto subtrees of the document root. A request whose Host
// header names an alias has its target prefixed with the alias root, so a single document
// root serves several sites.
package virtual

import (
	"net/url"
	"path"
	"strings"

	"github.com/indigo-web/hostd/docfs"
	"github.com/indigo-web/hostd/router/virtual/internal/domain"
)

type Hosts struct {
	aliases map[string]string
}

// New builds the alias table out of host -> subdirectory pairs.
func New(aliases map[string]string) Hosts {
	normalized := make(map[string]string, len(aliases))
	for host, root := range aliases {
		normalized[domain.Normalize(host)] = strings.Trim(root, "/")
	}

	return Hosts{aliases: normalized}
}

// Lookup returns the alias root of the host.
func (h Hosts) Lookup(host string) (root string, found bool) {
	root, found = h.aliases[domain.Normalize(host)]
	return root, found
}

// Rewrite returns the target as it must be resolved for the host. Targets of unmapped
// hosts are returned untouched. The target is cleaned before it is put under the alias
// root, so dot-segments never leave the alias subtree. The query is kept.
func (h Hosts) Rewrite(host, target string) string {
	root, found := h.Lookup(host)
	if !found {
		return target
	}

	var query string
	if mark := strings.IndexByte(target, '?'); mark != -1 {
		query = target[mark:]
	}

	rewritten := url.URL{Path: path.Join("/", root, docfs.Clean(target))}

	return rewritten.EscapedPath() + query
}

// Len returns the number of aliases.
func (h Hosts) Len() int {
	return len(h.aliases)
}
