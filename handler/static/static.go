// Package static serves files from a document root.
package static

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/indigo-web/engine/handler"
	"github.com/indigo-web/engine/http"
	"github.com/indigo-web/engine/http/mime"
	"github.com/indigo-web/engine/http/status"
	"github.com/indigo-web/engine/internal/uridecode"
	"github.com/indigo-web/utils/uf"
)

const index = "index.html"

var _ handler.Handler = Handler{}

// Handler reads the whole requested file into the response body. Paths ending with a slash
// are served by the index.html in the corresponding directory.
type Handler struct {
	root string
}

func New(root string) Handler {
	return Handler{root: root}
}

func (h Handler) Handle(request *http.Request, response *http.Response) error {
	path, err := Resolve(request.Target)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(path)))
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrPermission):
		return status.ErrForbidden
	default:
		return status.ErrNotFound
	}

	response.
		Status(status.OK).
		ContentType(mime.ByPath(path)).
		Bytes(data)

	return nil
}

// Resolve turns the request target into a slash-separated path relative to the document
// root. The query is dropped. Non-absolute paths, paths climbing up with ".." and malformed
// escape sequences are rejected with 400.
func Resolve(target string) (string, error) {
	if q := strings.IndexByte(target, '?'); q != -1 {
		target = target[:q]
	}

	decoded, err := uridecode.Decode(uf.S2B(target), nil)
	if err != nil {
		return "", err
	}

	path := string(decoded)
	if len(path) == 0 || path[0] != '/' || strings.Contains(path, "..") {
		return "", status.ErrBadRequest
	}

	if path[len(path)-1] == '/' {
		path += index
	}

	return path[1:], nil
}
