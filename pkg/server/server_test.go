package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonecut/pkg/cache"
	"github.com/matzehuels/zonecut/pkg/observability"
	"github.com/matzehuels/zonecut/pkg/pipeline"
	"github.com/matzehuels/zonecut/pkg/store"
)

const scenarioPage = `{"id": "page-1", "zones": [
	{"id": "h", "x": 0, "y": 0, "width": 100, "height": 20, "label": "Headline"},
	{"id": "t", "x": 0, "y": 20, "width": 100, "height": 100, "label": "Text"},
	{"id": "p", "x": 0, "y": 300, "width": 50, "height": 50, "label": "Photograph"}
]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(fc, nil, store.NewMemoryStore(), logger)
	return New(runner, pipeline.DefaultOptions(), Config{}, logger)
}

func do(t *testing.T, s *Server, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestOrder(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/order", "application/json", `{"page": `+scenarioPage+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/order = %d %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[OrderResponse](t, rec)
	if got.Page != "page-1" || !slices.Equal(got.Order, []string{"h", "t", "p"}) {
		t.Errorf("order response = %+v", got)
	}
}

func TestOrderBandsStrategy(t *testing.T) {
	body := `{"page": {"id": "cols", "zones": [
		{"id": "a", "x": 0, "y": 0, "width": 40, "height": 30, "label": "Text"},
		{"id": "b", "x": 50, "y": 0, "width": 40, "height": 10, "label": "Text"},
		{"id": "c", "x": 50, "y": 12, "width": 40, "height": 10, "label": "Text"}]},
		"options": {"strategy": "bands"}}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/order", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/order = %d %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[OrderResponse](t, rec); !slices.Equal(got.Order, []string{"b", "a", "c"}) {
		t.Errorf("order = %v, want [b a c]", got.Order)
	}
}

func TestArticles(t *testing.T) {
	body := `{"page": ` + scenarioPage + `, "options": {"include_trace": true}}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/articles", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/articles = %d %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[ArticlesResponse](t, rec)
	if len(got.Articles) != 1 || got.Articles[0].Seed != "h" || !slices.Equal(got.Unclustered, []string{"p"}) {
		t.Errorf("articles response = %+v", got)
	}
	if len(got.Trace) != 1 || got.Trace[0].Details["distance"] != "20.0px → 0.80" {
		t.Errorf("trace = %+v", got.Trace)
	}
}

func TestArticlesOptionsOverride(t *testing.T) {
	body := `{"page": ` + scenarioPage + `, "options": {"orphans": "singletons"}}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/articles", "application/json", body)
	got := decodeBody[ArticlesResponse](t, rec)
	if len(got.Articles) != 2 || len(got.Unclustered) != 0 {
		t.Errorf("singletons response = %+v", got)
	}
}

func TestAnalyzeLifecycle(t *testing.T) {
	s := newTestServer(t)
	body := `{"page": ` + scenarioPage + `}`

	rec := do(t, s, http.MethodPost, "/v1/analyze", "application/json", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first analyze = %d %s", rec.Code, rec.Body.String())
	}
	first := decodeBody[pipeline.Result](t, rec)

	rec = do(t, s, http.MethodPost, "/v1/analyze", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("second analyze = %d, want 200 (cache hit)", rec.Code)
	}
	if second := decodeBody[pipeline.Result](t, rec); !second.CacheHit || second.RunID != first.RunID {
		t.Errorf("second analyze = %+v", second)
	}

	rec = do(t, s, http.MethodGet, "/v1/analyses/"+first.RunID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET analysis = %d %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[pipeline.Result](t, rec); !slices.Equal(got.Order, first.Order) {
		t.Errorf("stored order = %v, want %v", got.Order, first.Order)
	}

	rec = do(t, s, http.MethodGet, "/v1/pages/page-1/latest", "", "")
	if got := decodeBody[pipeline.Result](t, rec); rec.Code != http.StatusOK || got.RunID != first.RunID {
		t.Errorf("GET latest = %d %+v", rec.Code, got)
	}
}

func TestLabelStudioAndYAMLRequests(t *testing.T) {
	s := newTestServer(t)

	ls := `{"format": "labelstudio", "id": "ls-page", "page": [
		{"id": "a", "type": "rectanglelabels", "value": {"x": 0, "y": 0, "width": 50, "height": 10, "labels": ["Headline"]}},
		{"id": "b", "type": "rectanglelabels", "value": {"x": 0, "y": 12, "width": 50, "height": 40, "labels": ["Text"]}}
	]}`
	rec := do(t, s, http.MethodPost, "/v1/articles", "application/json", ls)
	got := decodeBody[ArticlesResponse](t, rec)
	if got.Page != "ls-page" || len(got.Articles) != 1 || !slices.Equal(got.Articles[0].Zones, []string{"a", "b"}) {
		t.Errorf("label studio response = %d %+v", rec.Code, got)
	}

	yml := `
page:
  id: y1
  zones:
    - {id: left, x: 0, y: 0, width: 40, height: 100, label: Text}
    - {id: right, x: 60, y: 0, width: 40, height: 100, label: Text}
options:
  min_gap: 1
`
	rec = do(t, s, http.MethodPost, "/v1/order", "application/yaml", yml)
	if order := decodeBody[OrderResponse](t, rec); !slices.Equal(order.Order, []string{"left", "right"}) {
		t.Errorf("yaml order = %d %+v", rec.Code, order)
	}
}

func TestErrors(t *testing.T) {
	s := newTestServer(t)
	strictBad := `{"page": {"id": "x", "zones": [{"id": "z", "x": 0, "y": 0, "width": 0, "height": 5, "label": "Text"}]}, "options": {"strict": true}}`
	farZone := `{"page": {"id": "far", "zones": [
		{"id": "a", "x": 0, "y": 0, "width": 10, "height": 10, "label": "Text"},
		{"id": "b", "x": 1e18, "y": 0, "width": 10, "height": 10, "label": "Text"}]}}`
	hugeResolution := `{"page": ` + scenarioPage + `, "options": {"resolution": 1e9}}`

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{"malformed json", http.MethodPost, "/v1/order", "application/json", `{"page":`, 400, "INVALID_INPUT"},
		{"missing page", http.MethodPost, "/v1/order", "application/json", `{}`, 400, "INVALID_INPUT"},
		{"unknown format", http.MethodPost, "/v1/order", "application/json", `{"format": "pdf", "page": {}}`, 400, "INVALID_FORMAT"},
		{"bad options", http.MethodPost, "/v1/articles", "application/json", `{"page": {}, "options": {"distance_scale": -1}}`, 400, "INVALID_CONFIG"},
		{"strict invalid zone", http.MethodPost, "/v1/analyze", "application/json", strictBad, 400, "INVALID_ZONE"},
		{"zone beyond histogram", http.MethodPost, "/v1/analyze", "application/json", farZone, 400, "INVALID_ZONE"},
		{"order beyond histogram", http.MethodPost, "/v1/order", "application/json", farZone, 400, "INVALID_ZONE"},
		{"resolution too fine", http.MethodPost, "/v1/analyze", "application/json", hugeResolution, 400, "INVALID_ZONE"},
		{"unknown strategy", http.MethodPost, "/v1/order", "application/json", `{"page": {}, "options": {"strategy": "spiral"}}`, 400, "INVALID_CONFIG"},
		{"unknown run", http.MethodGet, "/v1/analyses/11111111-1111-1111-1111-111111111111", "", "", 404, "NOT_FOUND"},
		{"malformed run id", http.MethodGet, "/v1/analyses/abc", "", "", 400, "INVALID_INPUT"},
		{"unknown page", http.MethodGet, "/v1/pages/nope/latest", "", "", 404, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.contentType, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := decodeBody[ErrorBody](t, rec); got.Error.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", got.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestUnsupportedContentType(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/order", "text/plain", `{"page": {}}`)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestServerHooksSeeRoutePatterns(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	do(t, newTestServer(t), http.MethodGet, "/v1/analyses/11111111-1111-1111-1111-111111111111", "", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if !slices.Equal(hooks.routes, []string{"GET /v1/analyses/{runID}"}) {
		t.Errorf("routes = %v", hooks.routes)
	}
}
