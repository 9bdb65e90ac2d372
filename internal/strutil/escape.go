package strutil

import "strings"

const hexdigits = "0123456789abcdef"

// Escape renders arbitrary bytes as a single printable line, e.g. b'GET /\r\n'. Used
// to dump malformed input into logs.
func Escape(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) + len(data)/4 + 3)
	b.WriteString("b'")

	for _, c := range data {
		switch c {
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c >= 0x7f {
				b.WriteString(`\x`)
				b.WriteByte(hexdigits[c>>4])
				b.WriteByte(hexdigits[c&0xf])
				continue
			}

			b.WriteByte(c)
		}
	}

	b.WriteByte('\'')

	return b.String()
}
