package status

import "errors"

// HTTPError is an error carrying the status code the client must see. Handlers return
// it to decline a request with a specific status.
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

// CodeOf extracts the status code from err. Errors that don't carry any code
// are treated as internal ones.
func CodeOf(err error) Code {
	var herr HTTPError
	if errors.As(err, &herr) {
		return Normalize(herr.Code)
	}

	return InternalServerError
}

var (
	ErrBadRequest          = NewError(BadRequest, "bad request")
	ErrURIDecoding         = NewError(BadRequest, "invalid urlencoded sequence")
	ErrUnauthorized        = NewError(Unauthorized, "unauthorized")
	ErrForbidden           = NewError(Forbidden, "forbidden")
	ErrNotFound            = NewError(NotFound, "not found")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
	ErrNotImplemented      = NewError(NotImplemented, "not implemented")
	ErrBadGateway          = NewError(BadGateway, "bad gateway")
	ErrServiceUnavailable  = NewError(ServiceUnavailable, "service unavailable")
)
