package strutil

import "math"

func LStripWS(str string) string {
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

// TrimWS strips spaces and horizontal tabs from both sides.
func TrimWS(str string) string {
	return RStripWS(LStripWS(str))
}

// ParseUint parses an unsigned decimal. It is deliberately lenient: any non-digit
// character, an empty string or a value overflowing uint64 results in 0 instead of an error.
func ParseUint(str string) (n uint64) {
	if len(str) == 0 {
		return 0
	}

	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return 0
		}

		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0
		}

		n = n*10 + d
	}

	return n
}
