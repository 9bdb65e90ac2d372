package status

import "strconv"

type (
	Code   uint16
	Status string
)

// The engine serves exactly these codes. Anything else is rendered as
// InternalServerError, see Normalize.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	Created             Code = 201 // RFC 9110, 15.3.2
	Accepted            Code = 202 // RFC 9110, 15.3.3
	NoContent           Code = 204 // RFC 9110, 15.3.5
	MultipleChoices     Code = 300 // RFC 9110, 15.4.1
	MovedPermanently    Code = 301 // RFC 9110, 15.4.2
	MovedTemporarily    Code = 302 // RFC 9110, 15.4.3
	NotModified         Code = 304 // RFC 9110, 15.4.5
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	Unauthorized        Code = 401 // RFC 9110, 15.5.2
	Forbidden           Code = 403 // RFC 9110, 15.5.4
	NotFound            Code = 404 // RFC 9110, 15.5.5
	InternalServerError Code = 500 // RFC 9110, 15.6.1
	NotImplemented      Code = 501 // RFC 9110, 15.6.2
	BadGateway          Code = 502 // RFC 9110, 15.6.3
	ServiceUnavailable  Code = 503 // RFC 9110, 15.6.4
)

// KnownCodes lists every supported code in ascending order.
var KnownCodes = []Code{
	OK, Created, Accepted, NoContent,
	MultipleChoices, MovedPermanently, MovedTemporarily, NotModified,
	BadRequest, Unauthorized, Forbidden, NotFound,
	InternalServerError, NotImplemented, BadGateway, ServiceUnavailable,
}

// Text returns a reason phrase for the code. Unknown codes yield an empty string.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case Created:
		return "Created"
	case Accepted:
		return "Accepted"
	case NoContent:
		return "No Content"
	case MultipleChoices:
		return "Multiple Choices"
	case MovedPermanently:
		return "Moved Permanently"
	case MovedTemporarily:
		return "Moved Temporarily"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case BadGateway:
		return "Bad Gateway"
	case ServiceUnavailable:
		return "Service Unavailable"
	default:
		return ""
	}
}

// Known reports whether the code belongs to the supported set.
func Known(code Code) bool {
	return len(Text(code)) > 0
}

// Normalize degrades every unsupported code to InternalServerError.
func Normalize(code Code) Code {
	if Known(code) {
		return code
	}

	return InternalServerError
}

type stock struct {
	line, body string
}

var stocks = func() map[Code]stock {
	m := make(map[Code]stock, len(KnownCodes))
	for _, code := range KnownCodes {
		text := string(Text(code))
		numeric := strconv.Itoa(int(code))
		m[code] = stock{
			line: "HTTP/1.1 " + numeric + " " + text + "\r\n",
			body: "<html>" +
				"<head><title>" + text + "</title></head>" +
				"<body><h1>" + numeric + " " + text + "</h1></body>" +
				"</html>",
		}
	}

	return m
}()

// Line returns the full status line including the trailing CRLF, e.g.
// "HTTP/1.1 404 Not Found\r\n". Unsupported codes get the 500 line.
func Line(code Code) string {
	return stocks[Normalize(code)].line
}

// Body returns the stock HTML body of the code. Unsupported codes get the 500 body.
func Body(code Code) string {
	return stocks[Normalize(code)].body
}

// StringCode returns the code as a decimal string.
func StringCode(code Code) string {
	return strconv.Itoa(int(code))
}
