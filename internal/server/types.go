// Package server exposes the analysis pipeline over HTTP and WebSocket.
package server

import (
	"net/http"

	"github.com/MeKo-Tech/hemoscan/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline      *pipeline.Pipeline
	corsOrigin    string
	maxUploadMB   int64
	maxImageWidth int
	timeoutSec    int
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	MaxImageWidth  int
	TimeoutSec     int
	PipelineConfig pipeline.Config
}

// HealthResponse is returned by the /health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a new analysis server instance.
func NewServer(config Config) (*Server, error) {
	pl, err := pipeline.NewPipeline(config.PipelineConfig)
	if err != nil {
		return nil, err
	}

	return &Server{
		pipeline:      pl,
		corsOrigin:    config.CORSOrigin,
		maxUploadMB:   config.MaxUploadMB,
		maxImageWidth: config.MaxImageWidth,
		timeoutSec:    config.TimeoutSec,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/analyze", s.corsMiddleware(s.analyzeHandler))
	mux.HandleFunc("/ws/analyze", s.analyzeWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
