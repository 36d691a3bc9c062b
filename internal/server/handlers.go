package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MeKo-Tech/hemoscan/internal/pipeline"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
	"github.com/MeKo-Tech/hemoscan/internal/version"
	_ "golang.org/x/image/bmp"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// analyzeHandler processes image analysis requests.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	if s.pipeline == nil {
		s.writeErrorResponse(w, "Analysis pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	img = utils.NormalizeSize(img, s.maxImageWidth)
	buf := utils.NewPixelBufferFromImage(img)
	flashOn := parseBoolValue(formOrQuery(r, "flash"))

	start := time.Now()
	res, err := s.pipeline.Analyze(buf, flashOn)
	duration := time.Since(start)
	if err != nil {
		analysisRequestsTotal.WithLabelValues("image", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Analysis failed: %v", err), http.StatusInternalServerError)
		return
	}

	analysisRequestsTotal.WithLabelValues("image", "success").Inc()
	analysisDuration.WithLabelValues("image").Observe(duration.Seconds())
	findingsDetected.WithLabelValues("image").Observe(float64(len(res.Findings)))

	if parseBoolValue(formOrQuery(r, "overlay")) {
		s.writeOverlayResponse(w, img, res)
		return
	}

	data, err := pipeline.ResultToJSON(res)
	if err != nil {
		s.writeErrorResponse(w, "Failed to serialize result", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write analysis response", "error", err)
	}
}

// writeOverlayResponse renders the findings onto the input image as PNG.
func (s *Server) writeOverlayResponse(w http.ResponseWriter, img image.Image, res *pipeline.Result) {
	overlay := pipeline.RenderOverlay(img, res)
	if overlay == nil {
		s.writeErrorResponse(w, "Failed to render overlay", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, overlay); err != nil {
		slog.Error("Failed to encode overlay response", "error", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// formOrQuery reads a value from the multipart form, falling back to the
// URL query string.
func formOrQuery(r *http.Request, key string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

func parseBoolValue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
