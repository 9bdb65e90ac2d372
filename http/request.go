package http

import (
	"net"

	"github.com/indigo-web/engine/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

// Request represents an HTTP/1.x request head. Strings held by the request reference the
// parser's memory and are valid until the connection starts reading the next request, so
// they must be copied if they are going to be retained by the handler.
type Request struct {
	// Method is the request method token as received, e.g. "GET".
	Method string
	// Target is the raw, non-decoded request-target.
	Target string
	// Major and Minor are the digits of the HTTP-version.
	Major, Minor int
	// Headers maps field names, case-sensitive as received, to their trimmed values. A name
	// repeated within the same request overwrites the previously stored value.
	Headers map[string]string
	// KeepAlive and ContentLength are derived from the headers by Finalize. Before the
	// parser passes the request, their values are meaningless.
	KeepAlive     bool
	ContentLength uint64
	// Remote holds the remote address of the connection.
	Remote net.Addr
	// Secure tells whether the request came over TLS.
	Secure bool
}

func NewRequest() *Request {
	return &Request{
		Headers: make(map[string]string, 10),
	}
}

// Finalize computes derived fields. Must be called once the parser has passed the request.
func (r *Request) Finalize() {
	connection, found := r.Headers["Connection"]
	r.KeepAlive = found && strcomp.EqualFold(connection, "keep-alive")
	r.ContentLength = strutil.ParseUint(r.Headers["Content-Length"])
}

// Header returns the value of the header key, looked up case-sensitively.
func (r *Request) Header(key string) (value string, found bool) {
	value, found = r.Headers[key]
	return value, found
}

// Clear resets the request so it can be reused for the next one on the same connection.
// Remote and Secure are properties of the connection and stay intact.
func (r *Request) Clear() {
	r.Method = ""
	r.Target = ""
	r.Major, r.Minor = 0, 0
	clear(r.Headers)
	r.KeepAlive = false
	r.ContentLength = 0
}
