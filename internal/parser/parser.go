// Package parser implements an incremental HTTP/1.1 request head parser. It consumes
// input one octet at a time, so the message may be split at arbitrary boundaries
// between calls.
package parser

import (
	"github.com/indigo-web/engine/config"
	"github.com/indigo-web/engine/http"
	"github.com/indigo-web/engine/internal/buffer"
	"github.com/indigo-web/engine/internal/strutil"
	"github.com/indigo-web/utils/uf"
)

type Parser struct {
	state    parserState
	failedAt parserState
	// requestLine accumulates method and request-target, headers accumulates field names
	// and values. Strings stored into the request reference these buffers, therefore
	// they're cleared only on Reset.
	requestLine buffer.Buffer
	headers     buffer.Buffer
	key         string
}

func New(cfg *config.Config) *Parser {
	return &Parser{
		state: eRequestLine,
		requestLine: buffer.New(
			cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal,
		),
		headers: buffer.New(
			cfg.Headers.Space.Default, cfg.Headers.Space.Maximal,
		),
	}
}

// Parse feeds the data octet by octet until the request is either passed or failed, or
// the data is exhausted. The number of consumed octets includes the one that caused Pass
// or Fail, so data[n:] is everything left unparsed.
func (p *Parser) Parse(request *http.Request, data []byte) (result Result, n int) {
	for n < len(data) {
		result = p.Consume(request, data[n])
		n++

		if result != Continue {
			break
		}
	}

	return result, n
}

// Consume handles a single octet of input.
func (p *Parser) Consume(request *http.Request, c byte) Result {
	switch p.state {
	case eRequestLine:
		if !isTChar(c) {
			return p.fail()
		}

		if !p.requestLine.AppendByte(c) {
			return p.fail()
		}

		p.state = eMethod
	case eMethod:
		switch {
		case c == sp:
			request.Method = uf.B2S(p.requestLine.Finish())
			p.state = eTarget
		case isTChar(c):
			if !p.requestLine.AppendByte(c) {
				return p.fail()
			}
		default:
			return p.fail()
		}
	case eTarget:
		switch {
		case c == sp:
			if p.requestLine.SegmentLength() == 0 {
				return p.fail()
			}

			request.Target = uf.B2S(p.requestLine.Finish())
			p.state = eVersionH
		case !isCtl(c):
			if !p.requestLine.AppendByte(c) {
				return p.fail()
			}
		default:
			return p.fail()
		}
	case eVersionH:
		return p.expect(c, 'H', eVersionT1)
	case eVersionT1:
		return p.expect(c, 'T', eVersionT2)
	case eVersionT2:
		return p.expect(c, 'T', eVersionP)
	case eVersionP:
		return p.expect(c, 'P', eVersionSlash)
	case eVersionSlash:
		request.Major, request.Minor = 0, 0
		return p.expect(c, '/', eVersionMajor)
	case eVersionMajor:
		if !isDigit(c) {
			return p.fail()
		}

		request.Major = int(c - '0')
		p.state = eVersionDot
	case eVersionDot:
		return p.expect(c, '.', eVersionMinor)
	case eVersionMinor:
		if !isDigit(c) {
			return p.fail()
		}

		request.Minor = int(c - '0')
		p.state = eRequestLineCR
	case eRequestLineCR:
		return p.expect(c, cr, eRequestLineLF)
	case eRequestLineLF:
		return p.expect(c, lf, eFieldLine)
	case eFieldLine:
		switch {
		case c == cr:
			p.state = eHeadersLF
		case isTChar(c):
			if !p.headers.AppendByte(c) {
				return p.fail()
			}

			p.state = eFieldName
		default:
			return p.fail()
		}
	case eFieldName:
		switch {
		case c == ':':
			p.key = uf.B2S(p.headers.Finish())
			p.state = eFieldValue
		case isTChar(c):
			if !p.headers.AppendByte(c) {
				return p.fail()
			}
		default:
			return p.fail()
		}
	case eFieldValue, eFieldValueOWS:
		switch {
		case c == cr:
			value := strutil.TrimWS(uf.B2S(p.headers.Finish()))
			request.Headers[p.key] = value
			p.key = ""
			p.state = eFieldLineLF
		case isFieldVChar(c):
			if !p.headers.AppendByte(c) {
				return p.fail()
			}

			p.state = eFieldValue
		case isWS(c):
			if p.state == eFieldValueOWS {
				// only the first octet of a whitespace run is kept
				break
			}

			if !p.headers.AppendByte(c) {
				return p.fail()
			}

			p.state = eFieldValueOWS
		default:
			return p.fail()
		}
	case eFieldLineLF:
		return p.expect(c, lf, eFieldLine)
	case eHeadersLF:
		if c != lf {
			return p.fail()
		}

		p.state = eDone
		return Pass
	case eDone, eFailed:
		// a passed or failed parser must be reset before being fed again
		return p.fail()
	default:
		panic("BUG: unreachable parser state")
	}

	return Continue
}

// Reset brings the parser back to the initial state, invalidating all the strings
// previously stored into the request.
func (p *Parser) Reset() {
	p.state = eRequestLine
	p.failedAt = 0
	p.requestLine.Clear()
	p.headers.Clear()
	p.key = ""
}

// FailedAt names the grammar element which rejected the input. Empty unless the parser
// has failed.
func (p *Parser) FailedAt() string {
	if p.failedAt == 0 {
		return ""
	}

	return p.failedAt.String()
}

func (p *Parser) expect(c, want byte, next parserState) Result {
	if c != want {
		return p.fail()
	}

	p.state = next
	return Continue
}

func (p *Parser) fail() Result {
	if p.state != eFailed {
		p.failedAt = p.state
		p.state = eFailed
	}

	return Fail
}
