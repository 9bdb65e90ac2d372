package parser

const (
	sp   = ' '
	htab = '\t'
	cr   = '\r'
	lf   = '\n'
)

// tchars is the lookup table of token characters: alphanumerics plus
// ! # $ % & ' * + - . ^ _ ` | ~
var tchars = func() (table [256]bool) {
	for c := '0'; c <= '9'; c++ {
		table[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		table[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		table[c] = true
	}
	for _, c := range []byte("!#$%&'*+-.^_`|~") {
		table[c] = true
	}

	return table
}()

func isTChar(c byte) bool {
	return tchars[c]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isCtl treats space as a control character too, as it can't appear in a request-target.
func isCtl(c byte) bool {
	return c <= 0x20 || c == 0x7f
}

// isFieldVChar reports visible ASCII and obs-text.
func isFieldVChar(c byte) bool {
	return (c > 0x20 && c <= 0x7e) || c >= 0x80
}

func isWS(c byte) bool {
	return c == sp || c == htab
}
