package parser

// Result tells the caller what the parser made of the input fed so far.
type Result uint8

const (
	// Continue means the request head isn't complete yet and more data is required.
	Continue Result = iota
	// Pass means the request head was completely and successfully parsed.
	Pass
	// Fail means an octet violated the grammar. The parser stays failed until Reset.
	Fail
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "CONTINUE"
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eMethod
	eTarget
	eVersionH
	eVersionT1
	eVersionT2
	eVersionP
	eVersionSlash
	eVersionMajor
	eVersionDot
	eVersionMinor
	eRequestLineCR
	eRequestLineLF
	eFieldLine
	eFieldName
	eFieldValue
	eFieldValueOWS
	eFieldLineLF
	eHeadersLF
	eDone
	eFailed
)

func (s parserState) String() string {
	switch s {
	case eRequestLine:
		return "request-line"
	case eMethod:
		return "method"
	case eTarget:
		return "request-target"
	case eVersionH, eVersionT1, eVersionT2, eVersionP, eVersionSlash:
		return "HTTP-name"
	case eVersionMajor, eVersionDot, eVersionMinor:
		return "HTTP-version"
	case eRequestLineCR, eRequestLineLF:
		return "request-line CRLF"
	case eFieldLine:
		return "field-line"
	case eFieldName:
		return "field-name"
	case eFieldValue, eFieldValueOWS:
		return "field-value"
	case eFieldLineLF:
		return "field-line LF"
	case eHeadersLF:
		return "header section LF"
	case eDone:
		return "done"
	case eFailed:
		return "failed"
	default:
		return "unknown"
	}
}
