package hexconv

var valid = [256]bool{}

// Halfbyte maps a hex digit onto its value. Non-hex characters map onto 0, use Is to
// tell them apart from '0'.
var Halfbyte = [256]byte{
	'0': 0x0, '1': 0x1, '2': 0x2, '3': 0x3, '4': 0x4,
	'5': 0x5, '6': 0x6, '7': 0x7, '8': 0x8, '9': 0x9,
	'a': 0xa, 'b': 0xb, 'c': 0xc, 'd': 0xd, 'e': 0xe, 'f': 0xf,
	'A': 0xA, 'B': 0xB, 'C': 0xC, 'D': 0xD, 'E': 0xE, 'F': 0xF,
}

func init() {
	for _, c := range "0123456789abcdefABCDEF" {
		valid[c] = true
	}
}

// Is reports whether char is a hex digit.
func Is(char byte) bool {
	return valid[char]
}

// Parse returns the byte encoded by two hex digits. The result is meaningless unless
// both are valid.
func Parse(hi, lo byte) byte {
	return Halfbyte[hi]<<4 | Halfbyte[lo]
}
