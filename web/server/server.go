package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

var logger = log.New("server")

// Server handles web requests for the sphere tracer
type Server struct {
	port      int
	scenesDir string
	mux       *http.ServeMux
}

// NewServer creates a new web server. scenesDir is searched for file scenes and may be empty.
func NewServer(port int, scenesDir string) *Server {
	s := &Server{port: port, scenesDir: scenesDir, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)

	return s
}

// RenderRequest represents a render request from the client.
// Zero values keep the scene's own settings.
type RenderRequest struct {
	Scene           string  `json:"scene"`           // Scene id (e.g., "default")
	Width           int     `json:"width"`           // Image width
	AspectRatio     float64 `json:"aspectRatio"`     // Width / height
	SamplesPerPixel int     `json:"samplesPerPixel"` // Camera rays per pixel
	MaxDepth        int     `json:"maxDepth"`        // Bounce budget per ray
	Seed            *int64  `json:"seed,omitempty"`  // Sampler seed
}

// ProgressUpdate reports scanline progress via SSE
type ProgressUpdate struct {
	ScanlinesRemaining int   `json:"scanlinesRemaining"`
	TotalScanlines     int   `json:"totalScanlines"`
	ElapsedMs          int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image via SSE
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	TotalSamples    int     `json:"totalSamples"`
	AverageSegments float64 `json:"averageSegments"`
	Escaped         int     `json:"escaped"`
	Absorbed        int     `json:"absorbed"`
	DepthExhausted  int     `json:"depthExhausted"`
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"scenes": scenes})
}

// handleRender renders a scene and streams progress and the result with SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := scene.CreateScene(req.Scene, s.scenesDir)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	err = sceneObj.Apply(scene.Overrides{
		Width:           req.Width,
		AspectRatio:     req.AspectRatio,
		SamplesPerPixel: req.SamplesPerPixel,
		MaxDepth:        req.MaxDepth,
		Seed:            req.Seed,
	})
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	raytracer, err := sceneObj.NewRaytracer()
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}

	startTime := time.Now()
	totalScanlines := sceneObj.SamplingConfig.Height
	raytracer.SetProgressFunc(func(remaining int) {
		s.sendSSEUpdate(w, "progress", ProgressUpdate{
			ScanlinesRemaining: remaining,
			TotalScanlines:     totalScanlines,
			ElapsedMs:          time.Since(startTime).Milliseconds(),
		})
	})

	img, stats, err := raytracer.RenderPass(r.Context())
	if err != nil {
		logger.Noticef("render of %s stopped: %v", req.Scene, err)
		return
	}

	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	s.sendSSEUpdate(w, "complete", CompleteUpdate{
		ImageData: imageData,
		Stats: Stats{
			Width:           stats.Width,
			Height:          stats.Height,
			SamplesPerPixel: stats.SamplesPerPixel,
			TotalSamples:    stats.TotalSamples,
			AverageSegments: stats.AverageSegments(),
			Escaped:         stats.Escaped,
			Absorbed:        stats.Absorbed,
			DepthExhausted:  stats.DepthExhausted,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default"}

	if sceneID := query.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 16, 2000); err != nil {
		return nil, err
	}
	if req.AspectRatio, err = parseFloatParam(query, "aspectRatio", 0, 0.25, 4); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "samplesPerPixel", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 1, 500); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
		req.Seed = &seed
	}

	// Performance warning
	if req.Width > 800 && req.SamplesPerPixel > 100 {
		logger.Warning("large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a JSON payload as an SSE event
func (s *Server) sendSSEUpdate(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = "default"
	}

	sceneObj, err := scene.CreateScene(sceneID, s.scenesDir)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"aspectRatio":     sceneObj.CameraConfig.AspectRatio,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"seed":            config.Seed,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": 16, "max": 2000},
			"aspectRatio":     map[string]float64{"min": 0.25, "max": 4},
			"samplesPerPixel": map[string]int{"min": 1, "max": 10000},
			"maxDepth":        map[string]int{"min": 1, "max": 500},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
