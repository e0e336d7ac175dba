package http

import (
	"context"
	"net"

	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/kv"
	"github.com/indigo-web/utils/strcomp"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Names of the request-line data fields, as accepted by Request.Get.
const (
	FieldMethod  = "Method"
	FieldURI     = "URI"
	FieldVersion = "Version"
)

// Request represents HTTP request
type Request struct {
	// Method is the request method exactly as it was received.
	Method string
	// Path is the request target. It may be rewritten once, when the Host header names an
	// alias, and is used unchanged afterward.
	Path string
	// Protocol is the version of the protocol with the HTTP/ prefix stripped, e.g. 1.1
	Protocol string
	// Headers holds header pairs with names in the same case they were received.
	Headers Headers
	// Remote holds the remote address.
	Remote net.Addr
	// Ctx bounds external programs run to serve the request.
	Ctx      context.Context
	response *Response
}

func NewRequest(response *Response, headers *kv.Storage, remote net.Addr) *Request {
	return &Request{
		Headers:  headers,
		Remote:   remote,
		Ctx:      context.Background(),
		response: response,
	}
}

// Get returns a request data field: either one of FieldMethod, FieldURI, FieldVersion or a
// header value. Asking for anything that wasn't parsed is an error.
func (r *Request) Get(name string) (string, error) {
	switch name {
	case FieldMethod:
		return r.Method, nil
	case FieldURI:
		return r.Path, nil
	case FieldVersion:
		return r.Protocol, nil
	}

	value, found := r.Headers.Get(name)
	if !found {
		return "", status.ErrUnknownField
	}

	return value, nil
}

// KeepAlive tells whether the client wants the connection to be reused after the response.
// An explicit Connection header wins, otherwise HTTP/1.1 connections are persistent by default.
func (r *Request) KeepAlive() bool {
	if conn, found := r.Headers.Get("Connection"); found {
		return strcomp.EqualFold(conn, "keep-alive")
	}

	return r.Protocol == "1.1"
}

// Respond returns Response object.
//
// WARNING: this method clears the response builder under the hood. As it is passed
// by reference, it'll be cleared EVERYWHERE along a handler
func (r *Request) Respond() *Response {
	return r.response.Clear()
}

// Reset prepares the request for being filled by the next parse.
func (r *Request) Reset() {
	r.Method = ""
	r.Path = ""
	r.Protocol = ""
	r.Headers.Clear()
}
