package mime

import (
	"path/filepath"
	"strings"
)

type MIME = string

const (
	Plain MIME = "text/plain"
	HTML  MIME = "text/html"
	CSS   MIME = "text/css"
	JS    MIME = "text/javascript"
	GIF   MIME = "image/gif"
	JPEG  MIME = "image/jpeg"
	PNG   MIME = "image/png"
	SVG   MIME = "image/svg+xml"
	ICO   MIME = "image/vnd.microsoft.icon"
)

var Extension = map[string]MIME{
	".gif":  GIF,
	".htm":  HTML,
	".html": HTML,
	".jpg":  JPEG,
	".png":  PNG,
	".js":   JS,
	".css":  CSS,
	".ico":  ICO,
	".svg":  SVG,
}

// ByExtension looks the extension up, case-insensitively. Unknown extensions are served
// as plain text.
func ByExtension(ext string) MIME {
	if mime, found := Extension[strings.ToLower(ext)]; found {
		return mime
	}

	return Plain
}

// ByPath is ByExtension applied to the extension of the path's last element.
func ByPath(path string) MIME {
	return ByExtension(filepath.Ext(path))
}
