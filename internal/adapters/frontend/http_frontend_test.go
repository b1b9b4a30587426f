package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/deepguard/internal/analytics"
	"github.com/mikey/deepguard/internal/classifier"
	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/history"
	"github.com/mikey/deepguard/internal/lexicon"
	"github.com/mikey/deepguard/internal/metrics"
	"github.com/mikey/deepguard/internal/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	frontend  *HTTPFrontend
	ledger    *history.Ledger
	collector *metrics.Collector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	lex := lexicon.Default()
	ledger := history.NewLedger(0, 0, utils.NewTextProcessor(logger))
	metricsCfg := config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "deepguard"}
	collector := metrics.NewCollector(metricsCfg)
	service := core.NewScanService(classifier.NewKeywordClassifier(lex), ledger, nil, collector, logger)

	f := NewHTTPFrontend(
		service,
		analytics.NewAggregator(ledger, lex),
		collector,
		logger,
		config.ServerConfig{ListenAddress: "127.0.0.1:0", CORSOrigins: []string{"https://app.example.com"}},
		metricsCfg,
	)
	f.now = func() time.Time { return time.UnixMilli(1_717_000_000_000) }
	return &testServer{frontend: f, ledger: ledger, collector: collector}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.frontend.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	body := decodeBody(t, s.do(t, http.MethodGet, "/", ""))
	assert.Equal(t, "DeepGuard API v3.0", body["message"])
	assert.Equal(t, "3.0.0", body["version"])

	rec := s.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestScanText(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":"You stupid idiot"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Scan complete", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["is_harassment"])
	assert.Equal(t, 0.65, data["confidence"])
	assert.Equal(t, "high", data["severity"])
	assert.Equal(t, "MEDIUM", data["threat_level"])
	assert.Equal(t, []any{"stupid", "idiot"}, data["keywords_detected"])
	assert.Equal(t, 65.0, data["risk_score"])
	assert.Equal(t, "Threat: MEDIUM", data["explanation"])

	assert.Equal(t, history.Counters{TotalScans: 1, ThreatsDetected: 1}, s.ledger.Counters())
}

func TestScanTextSafe(t *testing.T) {
	s := newTestServer(t)

	data := decodeBody(t, s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":"Have a nice day"}`))["data"].(map[string]any)
	assert.Equal(t, false, data["is_harassment"])
	assert.Equal(t, 0.95, data["confidence"])
	assert.Equal(t, []any{}, data["keywords_detected"])
	assert.Equal(t, "Safe", data["explanation"])
}

func TestScanTextRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	rec = s.do(t, http.MethodPost, "/api/v1/scan_text", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, 0, s.ledger.Counters().TotalScans)
}

func TestAnalyzeNotification(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/mobile/analyze-notification", `{"content":"I will kill you"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	harassment := body["harassment"].(map[string]any)
	assert.Equal(t, true, harassment["is_harassment"])
	assert.Equal(t, "threat", harassment["type"])
	assert.Equal(t, "critical", harassment["severity"])
	assert.Equal(t, "HARASSMENT: 85% risk", harassment["explanation"])
	assert.Equal(t, 85.0, body["risk_score"])
	assert.Equal(t, "HIGH", body["threat_level"])
	assert.Equal(t, "keyword_enhanced", body["detection_method"])
	assert.Equal(t, 1_717_000_000_000.0, body["timestamp"])
	assert.NotEmpty(t, body["analysis_id"])

	records := s.ledger.All()
	require.Len(t, records, 1)
	assert.Equal(t, "unknown", records[0].Sender)
}

func TestAnalyzeNotificationKeepsTimestampAndSender(t *testing.T) {
	s := newTestServer(t)

	body := decodeBody(t, s.do(t, http.MethodPost, "/api/v1/mobile/analyze-notification",
		`{"content":"see you later","sender":"+15550100","timestamp":42}`))

	assert.Equal(t, 42.0, body["timestamp"])
	harassment := body["harassment"].(map[string]any)
	assert.Equal(t, "safe", harassment["type"])
	assert.Equal(t, "SAFE", harassment["explanation"])
	assert.Equal(t, "+15550100", s.ledger.All()[0].Sender)
}

func TestScanImage(t *testing.T) {
	s := newTestServer(t)

	body := decodeBody(t, s.do(t, http.MethodPost, "/api/v1/scan_image", ""))
	assert.Equal(t, "Coming soon", body["message"])
	assert.Equal(t, false, body["data"].(map[string]any)["is_deepfake"])
}

func TestDashboardEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":"You stupid idiot"}`)
	s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":"Have a nice day"}`)

	for _, path := range []string{"/api/v1/user/stats", "/api/v1/analytics/dashboard"} {
		body := decodeBody(t, s.do(t, http.MethodGet, path, ""))
		assert.Equal(t, true, body["success"], path)
		data := body["data"].(map[string]any)
		stats := data["user_stats"].(map[string]any)
		assert.Equal(t, 2.0, stats["total_scans"], path)
		assert.Equal(t, 1.0, stats["harassment_detected"], path)
		assert.Equal(t, 50.0, stats["safety_score"], path)
		assert.Len(t, data["weekly_trend"], 4, path)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":"I will kill you"}`)

	overview := decodeBody(t, s.do(t, http.MethodGet, "/api/v1/analytics/overview", ""))["data"].(map[string]any)
	assert.Equal(t, 100.0, overview["detection_rate"])
	assert.Len(t, overview["recent_activity"], 1)

	stats := decodeBody(t, s.do(t, http.MethodGet, "/api/v1/analytics/stats", ""))["data"].(map[string]any)
	assert.Len(t, stats["hourly_activity"], 24)

	trends := decodeBody(t, s.do(t, http.MethodGet, "/api/v1/analytics/trends", ""))["data"].([]any)
	assert.Len(t, trends, 1)

	summary := decodeBody(t, s.do(t, http.MethodGet, "/api/v1/analytics/summary", ""))["data"].(map[string]any)
	assert.Equal(t, 1.0, summary["threat_breakdown"].(map[string]any)["threats"])
	assert.Equal(t, 85.0, summary["average_risk_score"])
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scan_text", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.frontend.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	s.frontend.Router().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/scan_text", `{"text":"I will kill you"}`)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.collector.HarassmentTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		s.collector.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/scan_text", "200")))

	rec := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "deepguard_scans_total"))
}

func TestProcessMessage(t *testing.T) {
	s := newTestServer(t)

	result, err := s.frontend.ProcessMessage(testContext(t), &core.Message{Text: "ugly"})
	require.NoError(t, err)
	assert.Equal(t, core.ThreatLow, result.Verdict.ThreatLevel)
	assert.NoError(t, s.frontend.Stop())
}

// testContext returns a context cancelled when the test finishes
// (equivalent to testing.T.Context in Go 1.24+).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
