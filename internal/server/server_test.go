package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/litescript/ls-yantra/internal/cache"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/metrics"
)

const delhiBody = `{"latitude": 28.6139, "longitude": 77.2090, "scale_m": 3, "date": "2024-01-15"`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	base := []Option{WithMetrics(metrics.New(reg, reg))}
	return New(instrument.NewComputer(instrument.DefaultOptions()), append(base, opts...)...)
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: response is not JSON: %v\n%s", method, target, err, rec.Body.String())
		}
	}
	return rec, decoded
}

func dataOf(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	if resp["success"] != true {
		t.Fatalf("success = %v, response %v", resp["success"], resp)
	}
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data missing: %v", resp)
	}
	return data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, resp := do(t, s, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", resp["status"])
	}
	if list, ok := resp["available_yantras"].([]interface{}); !ok || len(list) != 5 {
		t.Errorf("available_yantras = %v", resp["available_yantras"])
	}
	if resp["catalog_stars"] != float64(28) {
		t.Errorf("catalog_stars = %v, want 28", resp["catalog_stars"])
	}
}

func TestListYantras(t *testing.T) {
	s := newTestServer(t)
	_, resp := do(t, s, http.MethodGet, "/api/yantras", "")
	if resp["total_count"] != float64(5) {
		t.Errorf("total_count = %v, want 5", resp["total_count"])
	}
	yantras := resp["available_yantras"].(map[string]interface{})
	dhruva, ok := yantras["dhruva-yantra"].(map[string]interface{})
	if !ok {
		t.Fatalf("dhruva-yantra missing from %v", yantras)
	}
	if dhruva["needs_time"] != true {
		t.Errorf("dhruva needs_time = %v", dhruva["needs_time"])
	}
}

func TestExample(t *testing.T) {
	s := newTestServer(t)
	rec, resp := do(t, s, http.MethodGet, "/api/yantra/rama/example", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if url, _ := resp["url"].(string); !strings.HasSuffix(url, "/api/rama-yantra") {
		t.Errorf("url = %v", resp["url"])
	}
	body := resp["body"].(map[string]interface{})
	if body["time"] != "14:30" {
		t.Errorf("example time = %v, want 14:30", body["time"])
	}

	rec, resp = do(t, s, http.MethodGet, "/api/yantra/astrolabe/example", "")
	if rec.Code != http.StatusNotFound || resp["code"] != CodeUnknownKind {
		t.Errorf("unknown example: status %d, code %v", rec.Code, resp["code"])
	}
}

func TestComputeRoutes(t *testing.T) {
	tests := []struct {
		path string
		body string
		want string
	}{
		{"/api/yantra/samrat", delhiBody + "}", "samrat"},
		{"/api/samrat-yantra", delhiBody + "}", "samrat"},
		{"/api/rasivalaya-yantra", delhiBody + "}", "rasivalaya"},
		{"/api/yantra/dhruva-protha-chakra", delhiBody + `, "time": "20:30"}`, "dhruva_protha_chakra"},
		{"/api/dhruva-yantra", delhiBody + `, "time": "20:30"}`, "dhruva_protha_chakra"},
		{"/api/rama-yantra", delhiBody + `, "time": "14:30"}`, "rama"},
		{"/api/digamsa-yantra", delhiBody + `, "time": "14:30"}`, "digamsa"},
		{"/api/diagsma_yantra", delhiBody + `, "time": "14:30"}`, "digamsa"},
		{"/api/yantra/diagsma", delhiBody + `, "time": "14:30"}`, "digamsa"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, resp := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			data := dataOf(t, resp)
			if data["yantra_type"] != tt.want {
				t.Errorf("yantra_type = %v, want %v", data["yantra_type"], tt.want)
			}
		})
	}
}

func TestComputeSamratValues(t *testing.T) {
	s := newTestServer(t)
	_, resp := do(t, s, http.MethodPost, "/api/yantra/samrat", `{"latitude": 28.6139, "longitude": 77.2090, "date": "2024-01-15"}`)
	data := dataOf(t, resp)
	if data["solar_time_highlighted"] != "11:30" {
		t.Errorf("solar_time_highlighted = %v, want 11:30", data["solar_time_highlighted"])
	}
	if data["scale_m"] != float64(3) {
		t.Errorf("scale_m = %v, want default 3", data["scale_m"])
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"unknown type", "/api/yantra/astrolabe", delhiBody + "}", http.StatusNotFound, CodeUnknownKind, ""},
		{"missing latitude", "/api/samrat-yantra", `{"longitude": 77, "date": "2024-01-15"}`, http.StatusBadRequest, CodeValidation, "latitude"},
		{"latitude range", "/api/samrat-yantra", `{"latitude": 95, "longitude": 77, "date": "2024-01-15"}`, http.StatusBadRequest, CodeValidation, "latitude"},
		{"bad scale", "/api/samrat-yantra", `{"latitude": 28, "longitude": 77, "scale_m": -2, "date": "2024-01-15"}`, http.StatusBadRequest, CodeValidation, "scale_m"},
		{"zero scale", "/api/samrat-yantra", `{"latitude": 28, "longitude": 77, "scale_m": 0, "date": "2024-01-15"}`, http.StatusBadRequest, CodeValidation, "scale_m"},
		{"bad date", "/api/samrat-yantra", `{"latitude": 28, "longitude": 77, "date": "15-01-2024"}`, http.StatusBadRequest, CodeFormat, "date"},
		{"missing time", "/api/dhruva-yantra", delhiBody + "}", http.StatusBadRequest, CodeValidation, "time"},
		{"bad time", "/api/rama-yantra", delhiBody + `, "time": "noon"}`, http.StatusBadRequest, CodeFormat, "time"},
		{"malformed json", "/api/samrat-yantra", `{"latitude": `, http.StatusBadRequest, CodeValidation, "body"},
		{"polar observer", "/api/rama-yantra", `{"latitude": 90, "longitude": 0, "date": "2024-06-21", "time": "12:00"}`, http.StatusUnprocessableEntity, CodeDomain, ""},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp["success"] != false {
				t.Errorf("success = %v, want false", resp["success"])
			}
			if resp["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", resp["code"], tt.wantCode)
			}
			field, _ := resp["field"].(string)
			if field != tt.wantField {
				t.Errorf("field = %q, want %q", field, tt.wantField)
			}
			if msg, _ := resp["error"].(string); msg == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec, resp := do(t, s, http.MethodGet, "/api/nowhere", "")
	if rec.Code != http.StatusNotFound || resp["code"] != CodeNotFound {
		t.Errorf("status %d, code %v", rec.Code, resp["code"])
	}
}

// countingCache wraps a cache and counts hits.
type countingCache struct {
	cache.Service
	mu   sync.Mutex
	hits int
	sets int
	keys []string
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.Service.Get(ctx, key)
	if err == nil {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return v, err
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.keys = append(c.keys, key)
	c.mu.Unlock()
	return c.Service.Set(ctx, key, value, ttl)
}

func TestReadoutCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	cc := &countingCache{Service: mem}
	s := newTestServer(t, WithCache(cc, time.Minute))

	body := delhiBody + `, "time": "14:30"}`
	rec1, _ := do(t, s, http.MethodPost, "/api/rama-yantra", body)
	rec2, _ := do(t, s, http.MethodPost, "/api/yantra/rama", body)
	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Fatalf("status %d / %d", rec1.Code, rec2.Code)
	}
	if cc.sets != 1 || cc.hits != 1 {
		t.Errorf("sets = %d, hits = %d; want 1, 1", cc.sets, cc.hits)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Error("cached response differs from computed response")
	}
	if len(cc.keys) != 1 || !strings.HasPrefix(cc.keys[0], "readout:rama:") || len(cc.keys[0]) != len("readout:rama:")+32 {
		t.Errorf("cache keys = %q, want readout:rama:<md5>", cc.keys)
	}

	// Invalid requests never touch the cache.
	do(t, s, http.MethodPost, "/api/samrat-yantra", `{"latitude": 99, "longitude": 0, "date": "2024-01-15"}`)
	if cc.sets != 1 {
		t.Errorf("sets = %d, want 1", cc.sets)
	}
}

func TestReadoutCache_EchoesRequestTime(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	s := newTestServer(t, WithCache(mem, time.Minute))

	for _, kind := range []string{"samrat", "rasivalaya"} {
		for _, clock := range []string{"09:00", "15:45", "09:00"} {
			rec, resp := do(t, s, http.MethodPost, "/api/yantra/"+kind, delhiBody+`, "time": "`+clock+`"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("%s at %s: status %d", kind, clock, rec.Code)
			}
			if got := dataOf(t, resp)["time"]; got != clock {
				t.Errorf("%s at %s: echoed time %v", kind, clock, got)
			}
		}
	}
}

func TestEngineEndpoints(t *testing.T) {
	s := newTestServer(t)
	q := "latitude=28.6139&longitude=77.2090&date=2024-01-15"

	_, resp := do(t, s, http.MethodGet, "/api/sidereal?"+q+"&time=20:30", "")
	data := dataOf(t, resp)
	lst, _ := data["lst_hours"].(float64)
	if lst < 0 || lst >= 24 {
		t.Errorf("lst_hours = %v", data["lst_hours"])
	}
	if data["time"] != "20:30" {
		t.Errorf("time = %v, want 20:30", data["time"])
	}

	_, resp = do(t, s, http.MethodGet, "/api/solar?"+q+"&time=12:00", "")
	data = dataOf(t, resp)
	if data["above_horizon"] != true {
		t.Errorf("above_horizon = %v at noon", data["above_horizon"])
	}
	if data["standard_meridian_deg"] != 82.5 {
		t.Errorf("standard_meridian_deg = %v", data["standard_meridian_deg"])
	}

	_, resp = do(t, s, http.MethodGet, "/api/zodiac?date=2024-01-15", "")
	data = dataOf(t, resp)
	if data["name"] != "Makara (Capricorn)" {
		t.Errorf("zodiac name = %v", data["name"])
	}

	_, resp = do(t, s, http.MethodGet, "/api/magnetic?latitude=28.6139&longitude=77.2090", "")
	data = dataOf(t, resp)
	if data["regional_model"] != true {
		t.Errorf("regional_model = %v", data["regional_model"])
	}
}

func TestEngineEndpoints_Errors(t *testing.T) {
	tests := []struct {
		target    string
		wantField string
	}{
		{"/api/sidereal?longitude=77&date=2024-01-15", "latitude"},
		{"/api/solar?latitude=28&longitude=77", "date"},
		{"/api/solar?latitude=abc&longitude=77&date=2024-01-15", "latitude"},
		{"/api/zodiac?date=2024-13-01", "date"},
		{"/api/magnetic?latitude=28", "longitude"},
		{"/api/magnetic?latitude=100&longitude=0", "latitude"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		rec, resp := do(t, s, http.MethodGet, tt.target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.target, rec.Code)
		}
		if resp["field"] != tt.wantField {
			t.Errorf("%s: field = %v, want %s", tt.target, resp["field"], tt.wantField)
		}
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, WithRateLimit(0.001, 2))
	for i := 0; i < 2; i++ {
		if rec, _ := do(t, s, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec, resp := do(t, s, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusTooManyRequests || resp["code"] != CodeRateLimited {
		t.Errorf("status %d, code %v; want 429 rate_limited", rec.Code, resp["code"])
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, WithCORS("http://dial.test"))
	req := httptest.NewRequest(http.MethodOptions, "/api/samrat-yantra", nil)
	req.Header.Set("Origin", "http://dial.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://dial.test" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/samrat-yantra", delhiBody+"}")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	body := rec.Body.String()
	for _, want := range []string{"yantra_http_requests_total", `yantra_readouts_computed_total{instrument="samrat"} 1`} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
