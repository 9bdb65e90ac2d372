package strutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "pavlo:80", NormalizeAddress("pavlo:80"))
	require.Equal(t, "0.0.0.0:80", NormalizeAddress(":80"))
}

func TestDisplayAddress(t *testing.T) {
	require.Equal(t, "localhost:80", DisplayAddress(":80"))
	require.Equal(t, "localhost:8443", DisplayAddress("0.0.0.0:8443"))
	require.Equal(t, "localhost:8080", DisplayAddress("[::]:8080"))
	require.Equal(t, "127.0.0.1:80", DisplayAddress("127.0.0.1:80"))
	require.Equal(t, "garbage", DisplayAddress("garbage"))
}
