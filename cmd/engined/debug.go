package main

import (
	"net/http"
	"time"

	"github.com/indigo-web/engine/conn"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type connections struct {
	Count       int         `json:"count"`
	Connections []conn.Info `json:"connections"`
}

func connectionsHandler(registry *conn.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snapshot := registry.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(connections{
			Count:       len(snapshot),
			Connections: snapshot,
		})
	}
}

// serveDebug exposes Prometheus metrics and the list of live connections.
func serveDebug(log *zap.Logger, addr string, registry *conn.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/connections", connectionsHandler(registry))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("serving metrics", zap.String("url", "http://"+addr+"/metrics"))
	if err := server.ListenAndServe(); err != nil {
		log.Error("metrics server failed", zap.Error(err))
	}
}
