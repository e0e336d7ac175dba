package status

import "strconv"

type (
	Code   uint16
	Status string
)

// HTTP status codes the server is able to produce.
// See: https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	OK Code = 200 // RFC 9110, 15.3.1

	BadRequest                  Code = 400 // RFC 9110, 15.5.1
	Unauthorized                Code = 401 // RFC 9110, 15.5.2
	Forbidden                   Code = 403 // RFC 9110, 15.5.4
	NotFound                    Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed            Code = 405 // RFC 9110, 15.5.6
	RequestTimeout              Code = 408 // RFC 9110, 15.5.9
	RequestURITooLong           Code = 414 // RFC 9110, 15.5.15
	RequestHeaderFieldsTooLarge Code = 431 // RFC 6585, 5

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	ServiceUnavailable      Code = 503 // RFC 9110, 15.6.4
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

// KnownCodes lists every code Text is aware of.
var KnownCodes = []Code{
	OK,
	BadRequest, Unauthorized, Forbidden, NotFound, MethodNotAllowed, RequestTimeout,
	RequestURITooLong, RequestHeaderFieldsTooLarge,
	InternalServerError, NotImplemented, ServiceUnavailable, HTTPVersionNotSupported,
}

// Text returns a text for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case RequestURITooLong:
		return "Request URI Too Long"
	case RequestHeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case ServiceUnavailable:
		return "Service Unavailable"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	default:
		return ""
	}
}

var stringCodes = func() map[Code]string {
	codes := make(map[Code]string, len(KnownCodes))
	for _, code := range KnownCodes {
		codes[code] = strconv.Itoa(int(code))
	}

	return codes
}()

// StringCode returns the decimal representation of the code, as it appears in a status line.
// Known codes are served from a precomputed table.
func StringCode(code Code) string {
	if s, found := stringCodes[code]; found {
		return s
	}

	return strconv.Itoa(int(code))
}
