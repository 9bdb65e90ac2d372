package strutil

import "net"

const (
	defaultAddress = "0.0.0.0"
	localhost      = "localhost"
)

func NormalizeAddress(addr string) string {
	if len(addr) == 0 {
		// the function should never receive empty address anyway
		return addr
	}

	if addr[0] == ':' {
		addr = defaultAddress + addr
	}

	return addr
}

// DisplayAddress turns a listening address into something a human can paste into a
// browser: the unspecified address is shown as localhost.
func DisplayAddress(addr string) string {
	host, port, err := net.SplitHostPort(NormalizeAddress(addr))
	if err != nil {
		return addr
	}

	if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		host = localhost
	}

	return net.JoinHostPort(host, port)
}
