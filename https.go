package engine

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/indigo-web/engine/internal/selfsigned"
	"golang.org/x/crypto/acme/autocert"
)

var ErrNoCertificates = errors.New("no certificates were passed")

const selfSignedValidity = 10 * 365 * 24 * time.Hour

// TLSConfig returns a server TLS config holding the passed certificates.
func TLSConfig(certs ...tls.Certificate) (*tls.Config, error) {
	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}

	for _, cert := range certs {
		if cert.Certificate == nil {
			return nil, fmt.Errorf("tls: %w", ErrNoCertificates)
		}
	}

	return &tls.Config{
		Certificates: certs,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// LoadTLS reads a PEM-encoded certificate chain and its private key.
func LoadTLS(cert, key string) (*tls.Config, error) {
	c, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return nil, fmt.Errorf("tls: %w", err)
	}

	return TLSConfig(c)
}

// AutoTLS obtains certificates for the domains from Let's Encrypt, caching them on disk.
// Empty domains list accepts any host the client asks for.
func AutoTLS(domains ...string) *tls.Config {
	m := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
	}

	if len(domains) > 0 {
		m.HostPolicy = autocert.HostWhitelist(domains...)
	}

	cache := cacheDir()
	if err := mkdirIfNotExists(cache); err == nil {
		m.Cache = autocert.DirCache(cache)
	}

	return m.TLSConfig()
}

// SelfSignedTLS returns a config with a certificate for localhost, generating it on the
// first call and reusing the one stored in the cache directory afterward.
func SelfSignedTLS() (*tls.Config, error) {
	cert, key, err := selfSignedCert(cacheDir())
	if err != nil {
		return nil, err
	}

	return LoadTLS(cert, key)
}

// IsLocal reports whether the address is served only locally, so there's no point in
// asking a public CA for the certificate.
func IsLocal(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	if len(host) == 0 || host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

func selfSignedCert(cache string) (cert, key string, err error) {
	var (
		certFilename = filepath.Join(cache, "localhost.crt")
		keyFilename  = filepath.Join(cache, "localhost.key")
	)

	if certExists(certFilename, keyFilename) {
		return certFilename, keyFilename, nil
	}

	if err = mkdirIfNotExists(cache); err != nil {
		return "", "", err
	}

	certPEM, keyPEM, err := selfsigned.Generate(selfSignedValidity, "localhost", "127.0.0.1", "::1")
	if err != nil {
		return "", "", err
	}

	if err = os.WriteFile(certFilename, certPEM, 0o600); err != nil {
		return "", "", err
	}

	if err = os.WriteFile(keyFilename, keyPEM, 0o600); err != nil {
		return "", "", err
	}

	return certFilename, keyFilename, nil
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return "/"
}

func cacheDir() string {
	const base = "engine-certs"
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches", base)
	case "windows":
		for _, ev := range []string{"APPDATA", "CSIDL_APPDATA", "TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return filepath.Join(v, base)
			}
		}
		return filepath.Join(homeDir(), base)
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, base)
	}
	return filepath.Join(homeDir(), ".cache", base)
}

func mkdirIfNotExists(dir string) error {
	if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
		return nil
	}

	return os.MkdirAll(dir, 0o700)
}

func certExists(cert, key string) bool {
	return fileExists(cert) && fileExists(key)
}

func fileExists(filename string) bool {
	stat, err := os.Stat(filename)

	return err == nil && !stat.IsDir()
}
