package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mikey/deepguard/internal/analytics"
	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/metrics"
	"go.uber.org/zap"
)

const (
	apiVersion      = "3.0.0"
	defaultSender   = "unknown"
	detectionMethod = "keyword_enhanced"
)

// HTTPFrontend serves the scan and analytics API over HTTP
type HTTPFrontend struct {
	service    *core.ScanService
	aggregator *analytics.Aggregator
	collector  *metrics.Collector
	logger     *zap.Logger
	cfg        config.ServerConfig
	metricsCfg config.MetricsConfig
	router     *mux.Router
	server     *http.Server
	now        func() time.Time
}

// NewHTTPFrontend creates a new HTTP frontend. collector may be nil.
func NewHTTPFrontend(
	service *core.ScanService,
	aggregator *analytics.Aggregator,
	collector *metrics.Collector,
	logger *zap.Logger,
	cfg config.ServerConfig,
	metricsCfg config.MetricsConfig,
) *HTTPFrontend {
	f := &HTTPFrontend{
		service:    service,
		aggregator: aggregator,
		collector:  collector,
		logger:     logger,
		cfg:        cfg,
		metricsCfg: metricsCfg,
		router:     mux.NewRouter(),
		now:        time.Now,
	}
	f.routes()
	return f
}

func (f *HTTPFrontend) routes() {
	f.router.Use(f.corsMiddleware, f.logMiddleware)

	f.router.HandleFunc("/", f.handleRoot).Methods(http.MethodGet)

	api := f.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", f.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/scan_text", f.handleScanText).Methods(http.MethodPost)
	api.HandleFunc("/scan_image", f.handleScanImage).Methods(http.MethodPost)
	api.HandleFunc("/mobile/analyze-notification", f.handleNotification).Methods(http.MethodPost)

	api.HandleFunc("/user/stats", f.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/analytics/dashboard", f.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/analytics/overview", f.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/analytics/stats", f.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/analytics/trends", f.handleTrends).Methods(http.MethodGet)
	api.HandleFunc("/analytics/summary", f.handleSummary).Methods(http.MethodGet)

	if f.collector != nil && f.metricsCfg.Enabled {
		f.router.Handle(f.metricsCfg.Path, f.collector.Handler()).Methods(http.MethodGet)
	}

	// Preflight requests are answered by corsMiddleware
	f.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Router returns the HTTP handler
func (f *HTTPFrontend) Router() http.Handler { return f.router }

// Start starts listening in the background
func (f *HTTPFrontend) Start() error {
	f.server = &http.Server{
		Addr:         f.cfg.ListenAddress,
		Handler:      f.router,
		ReadTimeout:  f.cfg.ReadTimeout,
		WriteTimeout: f.cfg.WriteTimeout,
	}

	f.logger.Info("HTTP frontend starting", zap.String("address", f.cfg.ListenAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (f *HTTPFrontend) Stop() error {
	if f.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// ProcessMessage scans a message directly, bypassing HTTP
func (f *HTTPFrontend) ProcessMessage(ctx context.Context, msg *core.Message) (*core.ScanResult, error) {
	return f.service.Scan(ctx, msg), nil
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type scanTextRequest struct {
	Text *string `json:"text"`
}

type scanTextResponse struct {
	IsHarassment     bool             `json:"is_harassment"`
	Confidence       float64          `json:"confidence"`
	Severity         core.Severity    `json:"severity"`
	ThreatLevel      core.ThreatLevel `json:"threat_level"`
	KeywordsDetected []string         `json:"keywords_detected"`
	RiskScore        int              `json:"risk_score"`
	Explanation      string           `json:"explanation"`
}

type notificationRequest struct {
	Content   *string `json:"content"`
	Sender    *string `json:"sender"`
	Timestamp *int64  `json:"timestamp"`
}

type harassmentBlock struct {
	IsHarassment     bool          `json:"is_harassment"`
	Confidence       float64       `json:"confidence"`
	Type             string        `json:"type"`
	Severity         core.Severity `json:"severity"`
	KeywordsDetected []string      `json:"keywords_detected"`
	Explanation      string        `json:"explanation"`
}

type notificationResponse struct {
	Harassment      harassmentBlock  `json:"harassment"`
	AnalysisID      string           `json:"analysis_id"`
	Timestamp       int64            `json:"timestamp"`
	RiskScore       int              `json:"risk_score"`
	ThreatLevel     core.ThreatLevel `json:"threat_level"`
	DetectionMethod string           `json:"detection_method"`
}

func (f *HTTPFrontend) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "DeepGuard API v3.0",
		"status":  "healthy",
		"version": apiVersion,
	})
}

func (f *HTTPFrontend) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API operational",
	})
}

func (f *HTTPFrontend) handleScanText(w http.ResponseWriter, r *http.Request) {
	var req scanTextRequest
	if !f.decode(w, r, &req) {
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}

	result := f.service.Scan(r.Context(), &core.Message{Text: *req.Text})
	v := result.Verdict

	explanation := "Safe"
	if v.IsHarassment {
		explanation = fmt.Sprintf("Threat: %s", v.ThreatLevel)
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Scan complete",
		Data: scanTextResponse{
			IsHarassment:     v.IsHarassment,
			Confidence:       round3(v.Confidence),
			Severity:         v.Severity,
			ThreatLevel:      v.ThreatLevel,
			KeywordsDetected: v.MatchedKeywords,
			RiskScore:        v.RiskScore(),
			Explanation:      explanation,
		},
	})
}

func (f *HTTPFrontend) handleNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if !f.decode(w, r, &req) {
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusUnprocessableEntity, "content is required")
		return
	}

	sender := defaultSender
	if req.Sender != nil {
		sender = *req.Sender
	}

	result := f.service.Scan(r.Context(), &core.Message{Text: *req.Content, Sender: sender})
	v := result.Verdict
	risk := v.RiskScore()

	kind, explanation := "safe", "SAFE"
	if v.IsHarassment {
		kind = "threat"
		explanation = fmt.Sprintf("HARASSMENT: %d%% risk", risk)
	}

	// A zero timestamp counts as absent
	ts := f.now().UnixMilli()
	if req.Timestamp != nil && *req.Timestamp != 0 {
		ts = *req.Timestamp
	}

	writeJSON(w, http.StatusOK, notificationResponse{
		Harassment: harassmentBlock{
			IsHarassment:     v.IsHarassment,
			Confidence:       round3(v.Confidence),
			Type:             kind,
			Severity:         v.Severity,
			KeywordsDetected: v.MatchedKeywords,
			Explanation:      explanation,
		},
		AnalysisID:      uuid.NewString(),
		Timestamp:       ts,
		RiskScore:       risk,
		ThreatLevel:     v.ThreatLevel,
		DetectionMethod: detectionMethod,
	})
}

// Media scanning is reserved; the endpoint exists so clients can probe it
func (f *HTTPFrontend) handleScanImage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Coming soon",
		Data:    map[string]any{"is_deepfake": false, "confidence": 0.0},
	})
}

func (f *HTTPFrontend) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: f.aggregator.Dashboard()})
}

func (f *HTTPFrontend) handleOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: f.aggregator.Overview()})
}

func (f *HTTPFrontend) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: f.aggregator.ActivityStats()})
}

func (f *HTTPFrontend) handleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: f.aggregator.MonthlyTrend()})
}

func (f *HTTPFrontend) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: f.aggregator.ThreatSummary()})
}

func (f *HTTPFrontend) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		f.logger.Debug("Rejected malformed request body", zap.Error(err), zap.String("path", r.URL.Path))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
