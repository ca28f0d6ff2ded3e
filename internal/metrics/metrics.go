package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks handled HTTP requests
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ngosite_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "path", "status"})

	// UploadBytesTotal tracks bytes written to the media store
	UploadBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ngosite_upload_bytes_total",
		Help: "Total bytes stored through the media store",
	}, []string{"backend"})

	// WebsocketClients tracks currently connected live-update clients
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ngosite_websocket_clients",
		Help: "Number of connected live-update websocket clients",
	})
)
