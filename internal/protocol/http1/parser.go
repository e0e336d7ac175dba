package http1

import (
	"strings"

	"github.com/indigo-web/hostd/http"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/router/virtual"
)

const protocolPrefix = "HTTP/"

// Parse fills the request out of the header block lines, the request line first. The
// request target of an aliased host is rewritten to point into the alias root.
func Parse(request *http.Request, lines []string, hosts virtual.Hosts) error {
	if len(lines) == 0 {
		return status.ErrBadRequestLine
	}

	if err := parseRequestLine(request, lines[0]); err != nil {
		return err
	}

	for _, line := range lines[1:] {
		colon := strings.IndexByte(line, ':')
		if colon < 1 {
			return status.ErrBadHeader
		}

		request.Headers.Add(line[:colon], strings.TrimSpace(line[colon+1:]))
	}

	if host, found := request.Headers.Get("Host"); found {
		request.Path = hosts.Rewrite(host, request.Path)
	}

	return nil
}

// parseRequestLine parses METHOD SP TARGET SP HTTP/VERSION. Exactly one space must
// separate the parts.
func parseRequestLine(request *http.Request, line string) error {
	method, rest, found := strings.Cut(line, " ")
	if !found || len(method) == 0 {
		return status.ErrBadRequestLine
	}

	target, version, found := strings.Cut(rest, " ")
	if !found || len(target) == 0 || strings.IndexByte(version, ' ') != -1 {
		return status.ErrBadRequestLine
	}

	protocol, found := strings.CutPrefix(version, protocolPrefix)
	if !found || len(protocol) == 0 {
		return status.ErrBadRequestLine
	}

	request.Method = method
	request.Path = target

	if !isSupported(protocol) {
		return status.ErrUnsupportedProtocol
	}

	request.Protocol = protocol

	return nil
}

func isSupported(protocol string) bool {
	switch protocol {
	case "1.0", "1.1":
		return true
	default:
		return false
	}
}
