package response

import (
	"github.com/indigo-web/hostd/http/mime"
	"github.com/indigo-web/hostd/http/status"
)

const DefaultContentType = mime.HTML

// Fields is the flat representation of a response, ready to be serialized.
type Fields struct {
	ContentType     string
	Connection      string
	WWWAuthenticate string
	Body            []byte
	Code            status.Code
}

func (f *Fields) Clear() {
	f.Code = status.OK
	f.ContentType = DefaultContentType
	f.Connection = ""
	f.WWWAuthenticate = ""
	f.Body = nil
}
