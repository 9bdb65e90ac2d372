package http

import (
	"slices"
	"strconv"

	"github.com/indigo-web/engine/http/status"
	"github.com/indigo-web/engine/internal/segments"
	"github.com/indigo-web/utils/uf"
)

const (
	colonsp = ": "
	crlf    = "\r\n"

	defaultContentType = "text/html"
)

// Response is filled by the handler and serialized by the connection. Serialization
// doesn't copy anything, so the response must stay unchanged until it's fully sent.
type Response struct {
	Code    status.Code
	Headers map[string]string
	Body    []byte
	keys    []string
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK.
func NewResponse() *Response {
	return &Response{
		Code:    status.OK,
		Headers: make(map[string]string, 7),
	}
}

// Status sets the response code.
func (r *Response) Status(code status.Code) *Response {
	r.Code = code
	return r
}

// Header sets a header value, overriding the previous one if present.
func (r *Response) Header(key, value string) *Response {
	r.Headers[key] = value
	return r
}

// ContentType is a shorthand for Header("Content-Type", value).
func (r *Response) ContentType(value string) *Response {
	return r.Header("Content-Type", value)
}

// String sets the response's body to the passed string without copying.
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.Body = body
	return r
}

// Write implements io.Writer by appending to the body.
func (r *Response) Write(b []byte) (n int, err error) {
	r.Body = append(r.Body, b...)
	return len(b), nil
}

// Stock discards everything set before and turns the response into the stock one of
// the code: the stock HTML body with a text/html content type. Unsupported codes get
// the 500 stock response.
func (r *Response) Stock(code status.Code) *Response {
	code = status.Normalize(code)
	r.Clear()
	r.Code = code

	return r.
		ContentType(defaultContentType).
		String(status.Body(code))
}

// Error turns the response into the stock response of the code carried by err.
func (r *Response) Error(err error) *Response {
	return r.Stock(status.CodeOf(err))
}

// Prepare finalizes the response before serialization: an unsupported code degrades to
// 500, Content-Length and Connection are always set by the engine, and defaults are
// applied unless the handler has set them explicitly.
func (r *Response) Prepare(keepAlive bool, defaults map[string]string) {
	if !status.Known(r.Code) {
		r.Stock(status.InternalServerError)
	}

	for key, value := range defaults {
		if _, found := r.Headers[key]; !found {
			r.Headers[key] = value
		}
	}

	r.Headers["Content-Length"] = strconv.Itoa(len(r.Body))
	if keepAlive {
		r.Headers["Connection"] = "keep-alive"
	} else {
		r.Headers["Connection"] = "close"
	}
}

// AppendSegments serializes the response into the queue: the status line, each header
// line, the blank line and the body. Headers are emitted in lexicographical order.
func (r *Response) AppendSegments(q *segments.Queue) {
	q.PushString(status.Line(r.Code))

	r.keys = r.keys[:0]
	for key := range r.Headers {
		r.keys = append(r.keys, key)
	}
	slices.Sort(r.keys)

	for _, key := range r.keys {
		q.PushString(key)
		q.PushString(colonsp)
		q.PushString(r.Headers[key])
		q.PushString(crlf)
	}

	q.PushString(crlf)
	q.Push(r.Body)
}

// Clear discards everything was done with Response object before
func (r *Response) Clear() *Response {
	r.Code = status.OK
	clear(r.Headers)
	r.Body = nil
	return r
}
