package router

import (
	"github.com/indigo-web/hostd/http"
)

// Router resolves requests into responses. OnError is called on every request that
// failed before or while being resolved. Its response is the last one on the connection.
type Router interface {
	OnRequest(request *http.Request) *http.Response
	OnError(request *http.Request, err error) *http.Response
}
