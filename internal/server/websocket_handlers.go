package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MeKo-Tech/hemoscan/internal/pipeline"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketAnalyzeRequest is an analysis request sent over WebSocket.
// Image holds the raw encoded bytes (base64 in the JSON frame).
type WebSocketAnalyzeRequest struct {
	Type     string `json:"type"` // "image"
	Image    []byte `json:"image,omitempty"`
	Filename string `json:"filename,omitempty"`
	Flash    bool   `json:"flash,omitempty"`
}

// WebSocketAnalyzeResponse is a progress or result frame sent to the client.
type WebSocketAnalyzeResponse struct {
	Type      string          `json:"type"`
	Status    string          `json:"status"` // "processing", "completed", "error"
	Progress  float64         `json:"progress,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorType string          `json:"error_type,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// analyzeWebSocketHandler handles WebSocket connections for streaming analysis.
func (s *Server) analyzeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Read deadline prevents hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage dispatches a single request frame.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketAnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	switch req.Type {
	case "image":
		s.processWebSocketImage(conn, req, requestID)
	default:
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type)
	}
}

// processWebSocketImage runs the pipeline for a WebSocket image request.
func (s *Server) processWebSocketImage(conn *websocket.Conn, req WebSocketAnalyzeRequest, requestID string) {
	if len(req.Image) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No image data provided")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(req.Image))
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to decode image: %v", err))
		return
	}

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "processing",
		Progress:  0.5,
		RequestID: requestID,
	})

	img = utils.NormalizeSize(img, s.maxImageWidth)
	buf := utils.NewPixelBufferFromImage(img)

	start := time.Now()
	res, err := s.pipeline.Analyze(buf, req.Flash)
	duration := time.Since(start)
	if err != nil {
		analysisRequestsTotal.WithLabelValues("websocket_image", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	analysisRequestsTotal.WithLabelValues("websocket_image", "success").Inc()
	analysisDuration.WithLabelValues("websocket_image").Observe(duration.Seconds())
	findingsDetected.WithLabelValues("websocket_image").Observe(float64(len(res.Findings)))

	payload, err := pipeline.ResultToJSON(res)
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", "Failed to serialize result")
		return
	}

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    payload,
		RequestID: requestID,
	})
}

// sendWebSocketResponse marshals and writes a response frame.
func (s *Server) sendWebSocketResponse(conn *websocket.Conn, resp WebSocketAnalyzeResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to write WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

func (s *Server) sendWebSocketError(conn *websocket.Conn, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
