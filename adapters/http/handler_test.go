package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpadapter "github.com/artpar/themedesigner/adapters/http"
	"github.com/artpar/themedesigner/adapters/metrics"
)

type pinger struct {
	err error
}

func (p pinger) Ping(ctx context.Context) error { return p.err }

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(pinger{}), zerolog.Nop(), httpadapter.RouterConfig{})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := serve(t, r, "GET", path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
			continue
		}
		var body httpadapter.HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body.Status != "ok" {
			t.Errorf("%s: expected status ok, got %q", path, body.Status)
		}
	}
}

func TestReadiness_Unhealthy(t *testing.T) {
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(pinger{err: errors.New("database is locked")}), zerolog.Nop(), httpadapter.RouterConfig{})

	rec := serve(t, r, "GET", "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var body httpadapter.HealthResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Status != "unhealthy" || body.Error != "database is locked" {
		t.Errorf("unexpected body %+v", body)
	}

	// Liveness does not depend on the store.
	if rec := serve(t, r, "GET", "/health/live"); rec.Code != http.StatusOK {
		t.Errorf("liveness: expected 200, got %d", rec.Code)
	}
}

func TestVersion(t *testing.T) {
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(nil), zerolog.Nop(), httpadapter.RouterConfig{})

	rec := serve(t, r, "GET", "/version")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body httpadapter.VersionResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Service != httpadapter.ServiceName || body.Version != httpadapter.BuildVersion {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestNotFound(t *testing.T) {
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(nil), zerolog.Nop(), httpadapter.RouterConfig{})

	rec := serve(t, r, "GET", "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Error.Code != "not_found" {
		t.Errorf("expected not_found, got %q", body.Error.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(nil), zerolog.Nop(), httpadapter.RouterConfig{
		Metrics:        m,
		MetricsPath:    "/metrics",
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	serve(t, r, "GET", "/version")

	rec := serve(t, r, "GET", "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `themedesigner_requests_total{method="GET",path="/version",status="2xx"} 1`) {
		t.Errorf("expected request counter in output:\n%s", body)
	}
}

func TestMetricsRoute_Disabled(t *testing.T) {
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(nil), zerolog.Nop(), httpadapter.RouterConfig{})

	if rec := serve(t, r, "GET", "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics, got %d", rec.Code)
	}
}

func TestSwaggerDoc(t *testing.T) {
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(nil), zerolog.Nop(), httpadapter.RouterConfig{
		EnableOpenAPI: true,
	})

	rec := serve(t, r, "GET", "/swagger/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var doc map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/admin/settings"]; !ok {
		t.Error("expected /admin/settings in swagger paths")
	}
}

func TestAdminMount(t *testing.T) {
	admin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
	r := httpadapter.NewRouter(httpadapter.NewHealthHandler(nil), zerolog.Nop(), httpadapter.RouterConfig{
		AdminHandler: admin,
	})

	rec := serve(t, r, "GET", "/admin/settings")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
