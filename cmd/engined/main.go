package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/indigo-web/engine"
	"github.com/indigo-web/engine/config"
	"github.com/indigo-web/engine/handler/static"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	addr, tlsAddr string
	root          string
	cert, key     string
	autoTLS       bool
	domains       string
}

func main() {
	var (
		opts     options
		cfgPath  = flag.String("config", "", "path to the YAML config")
		logLevel = zap.LevelFlag("log-level", zap.InfoLevel, "minimal level of logged messages")
	)
	flag.StringVar(&opts.addr, "addr", ":8080", "plain HTTP listen address, empty disables it")
	flag.StringVar(&opts.tlsAddr, "tls-addr", ":8443", "HTTPS listen address")
	flag.StringVar(&opts.root, "root", ".", "document root")
	flag.StringVar(&opts.cert, "cert", "server.crt", "PEM certificate chain for HTTPS")
	flag.StringVar(&opts.key, "key", "server.key", "PEM private key for HTTPS")
	flag.BoolVar(&opts.autoTLS, "autotls", false, "when no certificate is found, obtain one: self-signed for local addresses, Let's Encrypt otherwise")
	flag.StringVar(&opts.domains, "domains", "", "comma-separated domains allowed for Let's Encrypt")
	flag.Parse()

	cfg := config.Default()
	if len(*cfgPath) > 0 {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			_, _ = os.Stderr.WriteString(err.Error() + "\n")
			os.Exit(1)
		}
	}

	log, err := newLogger(cfg.Log, *logLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	err = run(log, cfg, opts)
	if err != nil {
		log.Error("engined failed", zap.Error(err))
	}

	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until a termination signal arrives. Every failure is returned, so the
// caller is the only place which exits the process.
func run(log *zap.Logger, cfg *config.Config, opts options) error {
	server := engine.New(static.New(opts.root)).
		Tune(cfg).
		Logger(log).
		Metrics(prometheus.DefaultRegisterer)

	if len(opts.addr) > 0 {
		if err := server.Listen(opts.addr); err != nil {
			return fmt.Errorf("listen %s: %w", opts.addr, err)
		}
	}

	tlsConfig, err := tlsSetup(log, opts.tlsAddr, opts.cert, opts.key, opts.autoTLS, opts.domains)
	switch {
	case err != nil:
		return fmt.Errorf("set up TLS: %w", err)
	case tlsConfig != nil:
		if err = server.ListenTLS(opts.tlsAddr, tlsConfig); err != nil {
			return fmt.Errorf("listen %s: %w", opts.tlsAddr, err)
		}
	}

	if len(cfg.Metrics.Addr) > 0 {
		go serveDebug(log, cfg.Metrics.Addr, server.Registry())
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-signals
		log.Info("shutting down", zap.Stringer("signal", sig))
		server.Stop()
	}()

	if err = server.Serve(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// newLogger builds the production JSON logger, or the development console one logging
// everything when the config asks for it.
func newLogger(cfg config.Log, level zapcore.Level) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = zap.NewAtomicLevelAt(level)

	return zapcfg.Build()
}

// tlsSetup enables HTTPS only if both the certificate and the key are present, unless
// automatic certificates are requested. Nil config means HTTPS is disabled.
func tlsSetup(log *zap.Logger, addr, cert, key string, auto bool, domains string) (*tls.Config, error) {
	switch {
	case fileExists(cert) && fileExists(key):
		return engine.LoadTLS(cert, key)
	case !auto:
		log.Info("no certificate found, HTTPS is disabled", zap.String("cert", cert), zap.String("key", key))
		return nil, nil
	case engine.IsLocal(addr):
		return engine.SelfSignedTLS()
	default:
		var hosts []string
		if len(domains) > 0 {
			hosts = strings.Split(domains, ",")
		}

		return engine.AutoTLS(hosts...), nil
	}
}

func fileExists(filename string) bool {
	stat, err := os.Stat(filename)
	return err == nil && !stat.IsDir()
}
