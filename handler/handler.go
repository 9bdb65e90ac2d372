// Package handler defines the contract between the connection engine and the code
// producing responses.
package handler

import (
	"github.com/indigo-web/engine/http"
	"github.com/indigo-web/engine/http/status"
)

// Handler fills the response for a fully parsed request. Returning an error declines the
// request: the response is then replaced by the stock one of the status carried by the
// error (see status.HTTPError), or by the 500 stock response if it carries none.
//
// Strings of the request are valid only until Handle returns, and the response must not
// be retained after that either.
type Handler interface {
	Handle(request *http.Request, response *http.Response) error
}

// HandlerFunc is an adapter allowing ordinary functions to be used as handlers.
type HandlerFunc func(request *http.Request, response *http.Response) error

func (h HandlerFunc) Handle(request *http.Request, response *http.Response) error {
	return h(request, response)
}

// NotFound declines every request with 404.
var NotFound = HandlerFunc(func(*http.Request, *http.Response) error {
	return status.ErrNotFound
})

// Dispatch invokes h and turns a decline into the corresponding stock response. The
// returned error is the one the handler declined with, if any, and is meant for logging.
func Dispatch(h Handler, request *http.Request, response *http.Response) error {
	if err := h.Handle(request, response); err != nil {
		response.Error(err)
		return err
	}

	return nil
}
