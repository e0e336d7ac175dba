package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the status code carried by err. Errors not produced via NewError are
// reported as InternalServerError.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrBadRequestLine       = NewError(BadRequest, "malformed request line")
	ErrBadHeader            = NewError(BadRequest, "malformed header line")
	ErrUnknownField         = NewError(BadRequest, "unknown request data field")
	ErrURITooLong           = NewError(RequestURITooLong, "request URI too long")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrServiceUnavailable   = NewError(ServiceUnavailable, "service unavailable")
	ErrUnsupportedProtocol  = NewError(HTTPVersionNotSupported, "HTTP version not supported")
)
