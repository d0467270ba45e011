package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/agent"
	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/mcptool"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/store"
	"github.com/costwise/costwise/internal/toolserver"
)

func testServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	ctx := context.Background()
	log := logging.New(io.Discard, "error")

	aws, err := mcptool.NewInProcess(ctx, "aws",
		toolserver.NewAWSServer(pricing.NewFallbackAWSClient(nil, log), log))
	require.NoError(t, err)
	gcp, err := mcptool.NewInProcess(ctx, "gcp",
		toolserver.NewGCPServer(pricing.NewFallbackGCPClient(nil, log), log))
	require.NoError(t, err)
	cmp, err := mcptool.NewInProcess(ctx, "comparison",
		toolserver.NewComparisonServer(log))
	require.NoError(t, err)

	tools := agent.Toolsets{AWS: aws, GCP: gcp, Comparison: cmp}
	t.Cleanup(func() { tools.Close() })

	cfg := config.Defaults()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, tools, store.NewMemoryAnalysisStore(), log)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "uptimeSeconds")
}

func TestProvidersInfo(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/providers/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Providers map[string]any  `json:"providers"`
		Live      map[string]bool `json:"live"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Providers, "aws")
	assert.Contains(t, body.Providers, "gcp")
	assert.False(t, body.Live["aws"])
	assert.False(t, body.Live["gcp"])
}

func TestTemplates(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Templates are keyed by ID, matching the catalog.
	var body struct {
		Templates map[string]struct {
			Name string `json:"name"`
		} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Templates, 3)
	for _, id := range []string{"startup_web_app", "enterprise_data_processing", "ml_training"} {
		assert.Contains(t, body.Templates, id)
		assert.NotEmpty(t, body.Templates[id].Name)
	}
}

func TestAnalyzeCompute(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze/compute", domain.Requirements{
		AWSInstanceType: "t3.micro",
		GCPMachineType:  "e2-micro",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	analysis := decodeBody[domain.Analysis](t, rec)
	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, domain.AnalysisCompute, analysis.Type)
	assert.Equal(t, domain.StatusCompleted, analysis.Status)
	require.NotNil(t, analysis.Result)
	assert.NotNil(t, analysis.Result.Compute)
	assert.Equal(t, "t3.micro", analysis.Requirements.AWSInstanceType)
}

func TestAnalyzeComprehensive_EmptyBodyUsesDefaults(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze/comprehensive", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	analysis := decodeBody[domain.Analysis](t, rec)
	assert.Equal(t, "t3.medium", analysis.Requirements.AWSInstanceType)
	require.NotNil(t, analysis.Result)
	assert.NotNil(t, analysis.Result.TCO)
	assert.NotNil(t, analysis.Result.Migration)
	assert.Greater(t, analysis.SavingsPercent, 0.0)
}

func TestAnalyze_ConfiguredHorizonFlowsIntoTCO(t *testing.T) {
	s := testServer(t, func(cfg *config.Config) {
		cfg.Analysis.TimeHorizonMonths = 12
	})

	rec := doRequest(t, s, http.MethodPost, "/api/analyze/comprehensive", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	analysis := decodeBody[domain.Analysis](t, rec)
	assert.Equal(t, 12, analysis.Requirements.TimeHorizonMonths)
	require.NotNil(t, analysis.Result)
	require.NotNil(t, analysis.Result.TCO)
	assert.Equal(t, 12, analysis.Result.TCO.TimeHorizonMonths)

	// An explicit horizon in the request still wins over the config.
	rec = doRequest(t, s, http.MethodPost, "/api/analyze/comprehensive", domain.Requirements{
		TimeHorizonMonths: 24,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	analysis = decodeBody[domain.Analysis](t, rec)
	assert.Equal(t, 24, analysis.Result.TCO.TimeHorizonMonths)
}

func TestAnalyze_MalformedBody(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/compute", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "invalid_request", body.Error)
}

func TestAnalyze_BadRegionFailsAnalysis(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze/compute", domain.Requirements{
		AWSRegion: "mars-north-1",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	analysis := decodeBody[domain.Analysis](t, rec)
	assert.Equal(t, domain.StatusFailed, analysis.Status)
	assert.Contains(t, analysis.Recommendation, "mars-north-1")
}

func TestHistoryRoundTrip(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze/storage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[domain.Analysis](t, rec)

	rec = doRequest(t, s, http.MethodGet, "/api/analysis/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Analyses []domain.AnalysisSummary `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Analyses, 1)
	assert.Equal(t, created.ID, listing.Analyses[0].ID)

	rec = doRequest(t, s, http.MethodGet, "/api/analysis/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[domain.Analysis](t, rec)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Result)
	assert.NotNil(t, got.Result.Storage)
}

func TestHistory_InvalidLimit(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/analysis/history?limit=banana", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_Empty(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/analysis/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"analyses":[]`)
}

func TestAnalysisByID_NotFound(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/analysis/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "not_found", body.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, nil)

	// Drive one request through the middleware so counters exist.
	handler := withMiddleware(s.Router(), s.log, s.metrics, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "costwise_http_requests_total")
}

func TestResolveBindAddr(t *testing.T) {
	tests := []struct {
		bind string
		host string
		want string
	}{
		{"loopback", "", "127.0.0.1:7180"},
		{"lan", "", "0.0.0.0:7180"},
		{"auto", "", "0.0.0.0:7180"},
		{"custom", "10.0.0.5", "10.0.0.5:7180"},
		{"custom", "", "0.0.0.0:7180"},
		{"", "", "127.0.0.1:7180"},
	}
	for _, tt := range tests {
		cfg := config.ServerConfig{Port: 7180, Bind: tt.bind, CustomBindHost: tt.host}
		assert.Equal(t, tt.want, resolveBindAddr(cfg))
	}
}
