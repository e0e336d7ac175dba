package http

import (
	"github.com/indigo-web/hostd/http/mime"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/internal/response"
)

type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK
// and text/html content-type.
// NOTE: it's recommended to use Request.Respond() method inside of handlers, if there's no
// clear reason otherwise
func NewResponse() *Response {
	resp := &Response{fields: new(response.Fields)}
	resp.fields.Clear()

	return resp
}

// Code sets a Response code and a corresponding status.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// Connection sets the Connection header. Empty value omits the header.
func (r *Response) Connection(value string) *Response {
	r.fields.Connection = value
	return r
}

// Authenticate sets the WWW-Authenticate challenge.
func (r *Response) Authenticate(challenge string) *Response {
	r.fields.WWWAuthenticate = challenge
	return r
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Reveal returns a struct with values, filled by builder. Used mostly in internal purposes
func (r *Response) Reveal() *response.Fields {
	return r.fields
}

// Clear discards everything was done with Response object before
func (r *Response) Clear() *Response {
	r.fields.Clear()
	return r
}

// Respond is a predicate to request.Respond(). May be used as a dummy handler
func Respond(request *Request) *Response {
	return request.Respond()
}
