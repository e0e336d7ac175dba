package render

import (
	"html"
	"net/url"
	"path"
	"strings"

	"github.com/indigo-web/hostd/docfs"
)

// Tree renders the listing of the directory's immediate children. The dir is a cleaned
// request path relative to the document root, treeURI is the prefix of tree view links.
// Files are rendered as plain labels, subdirectories as links into the tree view. Unless
// the dir is the root itself, a link to the parent goes first.
func Tree(treeURI, dir string, entries []docfs.Entry) string {
	treeURI = strings.TrimSuffix(treeURI, "/")
	dir = strings.TrimSuffix(dir, "/")

	header := dir
	if len(header) == 0 {
		header = "/"
	}

	var b strings.Builder
	b.WriteString(`<section class="documents-directory-inner-content">`)
	b.WriteString(`<header class="documents-directory">`)
	b.WriteString(html.EscapeString(header))
	b.WriteString(`</header>`)
	b.WriteString(`<div class="documents-sub-directory-container">`)

	if len(dir) > 0 {
		parent := path.Dir(dir)
		if parent == "/" {
			parent = ""
		}

		link(&b, treeURI+parent, "..")
	}

	for _, entry := range entries {
		if entry.IsDir {
			link(&b, treeURI+dir+"/"+entry.Name, entry.Name)
			continue
		}

		b.WriteString(`<span class="documents-sub-directory">`)
		b.WriteString(html.EscapeString(entry.Name))
		b.WriteString(`</span>`)
	}

	b.WriteString(`</div></section>`)

	return b.String()
}

func link(b *strings.Builder, href, label string) {
	if len(href) == 0 {
		href = "/"
	}

	b.WriteString(`<a class="documents-sub-directory" href="`)
	b.WriteString(html.EscapeString((&url.URL{Path: href}).EscapedPath()))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</a>`)
}
