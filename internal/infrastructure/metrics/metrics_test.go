package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	var m Noop
	m.ObserveRequest("GET", "/", "200", 0.1)
	m.IncUploads("ok")
	m.IncTransforms("blur", "ok")
	m.IncExports("png", "ok")
	m.AddStoredBytes("upload", 10)
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewProm("photo_effects", reg)
	if err != nil {
		t.Fatalf("new prom: %v", err)
	}

	m.ObserveRequest("POST", "/blur/:id", "200", 0.2)
	m.IncUploads("ok")
	m.IncTransforms("blur", "ok")
	m.IncTransforms("enhance", "validation_error")
	m.IncExports("jpeg", "not_found")
	m.AddStoredBytes("transform", 512)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if !hasMetric(families, "photo_effects_http_requests_total", map[string]string{"route": "/blur/:id", "status": "200"}) {
		t.Fatalf("expected http_requests metric")
	}
	if !hasMetric(families, "photo_effects_http_request_duration_seconds", map[string]string{"route": "/blur/:id"}) {
		t.Fatalf("expected latency metric")
	}
	if !hasMetric(families, "photo_effects_uploads_total", map[string]string{"outcome": "ok"}) {
		t.Fatalf("expected uploads metric")
	}
	if !hasMetric(families, "photo_effects_transforms_total", map[string]string{"kind": "enhance", "outcome": "validation_error"}) {
		t.Fatalf("expected transforms metric")
	}
	if !hasMetric(families, "photo_effects_exports_total", map[string]string{"format": "jpeg", "outcome": "not_found"}) {
		t.Fatalf("expected exports metric")
	}
	if !hasMetric(families, "photo_effects_stored_bytes_total", map[string]string{"source": "transform"}) {
		t.Fatalf("expected stored bytes metric")
	}
}

func TestNewPromRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewProm("dup", reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewProm("dup", reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewProm("photo_effects", reg)
	if err != nil {
		t.Fatalf("new prom: %v", err)
	}
	m.IncUploads("ok")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "photo_effects_uploads_total") {
		t.Fatalf("expected uploads metric in output")
	}
}

func hasMetric(families []*dto.MetricFamily, name string, labels map[string]string) bool {
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if labelsMatch(metric.GetLabel(), labels) {
				return true
			}
		}
	}
	return false
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	found := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok {
			if v != pair.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(want)
}
