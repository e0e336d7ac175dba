package mime

type Charset = string

const (
	UTF8  Charset = "UTF-8"
	ASCII Charset = "US-ASCII"
)

// DefaultCharset defines charsets appended to the Content-Type of textual MIMEs.
var DefaultCharset = map[MIME]Charset{
	CSS:   UTF8,
	HTML:  UTF8,
	JS:    UTF8,
	XML:   UTF8,
	JSON:  UTF8,
	Plain: UTF8,
}

// WithCharset renders a Content-Type value, appending the default charset if any.
func WithCharset(mime MIME) string {
	charset, found := DefaultCharset[mime]
	if !found {
		return mime
	}

	return mime + ";charset=" + charset
}
