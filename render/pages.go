package render

import (
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/indigo-web/hostd/http/status"
)

// Template placeholders.
const (
	ErrorCodeParam    = "[PARAM=errorCode=PARAM]"
	ErrorMessageParam = "[PARAM=errorMessage=PARAM]"
	TreePageParam     = "[PARAM=treePage=PARAM]"
)

const defaultErrorTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>[PARAM=errorCode=PARAM]</title></head>
<body><h1>[PARAM=errorCode=PARAM]</h1><p>[PARAM=errorMessage=PARAM]</p></body>
</html>
`

const defaultTreeTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Documents</title></head>
<body>[PARAM=treePage=PARAM]</body>
</html>
`

// Pages fills the error and tree page templates. Templates are read on every call, so
// they can be edited while the server runs. A missing template falls back to the
// built-in one.
type Pages struct {
	errorTemplate string
	treeTemplate  string
}

// NewPages takes the template paths relative to the document root.
func NewPages(root, errorTemplate, treeTemplate string) Pages {
	return Pages{
		errorTemplate: filepath.Join(root, filepath.FromSlash(errorTemplate)),
		treeTemplate:  filepath.Join(root, filepath.FromSlash(treeTemplate)),
	}
}

// Error renders the error page. The message is HTML-escaped.
func (p Pages) Error(code status.Code, message string) []byte {
	replacer := strings.NewReplacer(
		ErrorCodeParam, strconv.Itoa(int(code)),
		ErrorMessageParam, html.EscapeString(message),
	)

	return []byte(replacer.Replace(load(p.errorTemplate, defaultErrorTemplate)))
}

// Tree wraps the listing markup into the tree page.
func (p Pages) Tree(listing string) []byte {
	return []byte(strings.ReplaceAll(load(p.treeTemplate, defaultTreeTemplate), TreePageParam, listing))
}

func load(name, fallback string) string {
	content, err := os.ReadFile(name)
	if err != nil {
		return fallback
	}

	return string(content)
}
