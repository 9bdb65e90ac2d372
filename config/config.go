package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	URIRequestLineSize struct {
		Default int `yaml:"default"`
		Maximal int `yaml:"maximal"`
	}

	HeadersSpace struct {
		Default int `yaml:"default"`
		Maximal int `yaml:"maximal"`
	}
)

type (
	URI struct {
		// RequestLineSize bounds the buffer storing method and request target while they
		// are being accumulated. Exceeding the maximal boundary fails the request.
		RequestLineSize URIRequestLineSize `yaml:"request_line_size"`
	}

	Headers struct {
		// Space limits the amount of memory occupied by request header names and values.
		Space HeadersSpace `yaml:"space"`
		// Default headers are included into every response implicitly, unless explicitly
		// set by the handler.
		Default map[string]string `yaml:"default" test:"nullable"`
	}

	NET struct {
		// ReadBufferSize is a size of the buffer a single receive is issued into.
		ReadBufferSize int `yaml:"read_buffer_size"`
		// WriteBufferSize limits how many bytes a single send may cover on transports
		// that can't write vectored buffers (TLS).
		WriteBufferSize int `yaml:"write_buffer_size"`
		// HandshakeTimeout bounds the TLS handshake.
		HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
		// IdleTimeout is used for TLS connections and for plain connections waiting
		// for the next request after a keep-alive reuse.
		IdleTimeout time.Duration `yaml:"idle_timeout"`
		// ActiveTimeout is used for established plain-TCP activity.
		ActiveTimeout time.Duration `yaml:"active_timeout"`
		// ShutdownTimeout is how long a graceful shutdown waits for the peer before
		// falling back to a hard close.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop.
		AcceptLoopInterruptPeriod time.Duration `yaml:"accept_loop_interrupt_period"`
	}

	Log struct {
		// Development switches to the human-readable console encoder with debug level.
		Development bool `yaml:"development" test:"nullable"`
	}

	Metrics struct {
		// Addr is where /metrics and /debug/connections are served. Empty disables it.
		Addr string `yaml:"addr"`
	}
)

// Config holds settings used across the engine, mainly timeouts, limits and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because zero timeouts and limits make every connection fail immediately.
type Config struct {
	URI     URI     `yaml:"uri"`
	Headers Headers `yaml:"headers"`
	NET     NET     `yaml:"net"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		URI: URI{
			RequestLineSize: URIRequestLineSize{
				Default: 2 * 1024,
				Maximal: 16 * 1024,
			},
		},
		Headers: Headers{
			Space: HeadersSpace{
				Default: 1 * 1024,
				Maximal: 16 * 1024,
			},
			Default: make(map[string]string),
		},
		NET: NET{
			ReadBufferSize:   8 * 1024,
			WriteBufferSize:  64 * 1024,
			HandshakeTimeout: 10 * time.Second,
			// handshaking and idle keep-alive connections cost memory while doing nothing,
			// so they are evicted sooner than active ones.
			IdleTimeout:               15 * time.Second,
			ActiveTimeout:             60 * time.Second,
			ShutdownTimeout:           5 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Metrics: Metrics{
			Addr: "localhost:9100",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing in the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Headers.Default == nil {
		cfg.Headers.Default = make(map[string]string)
	}

	return cfg, nil
}
