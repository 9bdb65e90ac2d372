package uridecode

import (
	"bytes"

	"github.com/indigo-web/engine/http/status"
	"github.com/indigo-web/engine/internal/hexconv"
)

// Decode normalizes the URI by translating escaped characters into their true form. The
// result is appended to buff, unless src contains nothing to decode, in which case src is
// returned as is. Plus signs are decoded into spaces.
func Decode(src, buff []byte) ([]byte, error) {
	if bytes.IndexByte(src, '%') == -1 && bytes.IndexByte(src, '+') == -1 {
		return src, nil
	}

	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '%':
			if i+2 >= len(src) || !hexconv.Is(src[i+1]) || !hexconv.Is(src[i+2]) {
				return nil, status.ErrURIDecoding
			}

			buff = append(buff, hexconv.Parse(src[i+1], src[i+2]))
			i += 2
		case '+':
			buff = append(buff, ' ')
		default:
			buff = append(buff, c)
		}
	}

	return buff, nil
}
