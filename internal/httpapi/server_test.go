package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/records"
)

type stubEstimator struct {
	result estimation.EstimationResult
	calls  int
	attrs  estimation.PropertyAttributes
}

func (s *stubEstimator) Estimate(_ context.Context, attrs estimation.PropertyAttributes) estimation.EstimationResult {
	s.calls++
	s.attrs = attrs
	return s.result
}

type memStore struct {
	saved   []records.EstimateRecord
	saveErr error
}

func (m *memStore) Save(rec records.EstimateRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memStore) Get(id string) (records.EstimateRecord, bool, error) {
	for _, rec := range m.saved {
		if rec.EstimateID == id {
			return rec, true, nil
		}
	}
	return records.EstimateRecord{}, false, nil
}

func (m *memStore) ListRecent(limit int) ([]records.EstimateRecord, error) {
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return m.saved[:limit], nil
}

func validBody() map[string]any {
	return map[string]any{
		"state": "Jalisco", "city": "Guadalajara", "district": "Americana", "street": "Av. Chapultepec 120",
		"rooms": 3, "bathrooms": 2, "has_garage": true, "area_m2": 120,
		"has_basic_services": true, "property_type": "house", "age_years": 12,
		"condition": "good", "finish_quality": "mid-range",
	}
}

func newTestServer(est *stubEstimator, store *memStore) http.Handler {
	return NewServer(est, store, estimation.DefaultPriceFactors)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	blob, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(blob))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreateEstimate(t *testing.T) {
	est := &stubEstimator{result: estimation.EstimationResult{
		BasePrice: 3200000, AdjustmentFactor: 1.1, FinalPrice: 3520000, Adjusted: true,
	}}
	store := &memStore{}
	h := newTestServer(est, store)

	rr := postJSON(t, h, "/v1/estimates", validBody())
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var rec records.EstimateRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.EstimateID == "" || rec.FinalPrice != 3520000 || !rec.Adjusted {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if est.calls != 1 || est.attrs.City != "Guadalajara" {
		t.Fatalf("estimator not invoked with decoded attributes: calls=%d attrs=%+v", est.calls, est.attrs)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(store.saved))
	}
}

func TestCreateEstimateRejectsInvalidAttributes(t *testing.T) {
	est := &stubEstimator{}
	h := newTestServer(est, &memStore{})

	body := validBody()
	body["area_m2"] = 0
	body["rooms"] = -1
	rr := postJSON(t, h, "/v1/estimates", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "area_m2 must be > 0") {
		t.Fatalf("expected area violation in body: %s", rr.Body.String())
	}
	if est.calls != 0 {
		t.Fatal("estimator must not run on invalid input")
	}
}

func TestCreateEstimateRejectsMalformedJSON(t *testing.T) {
	h := newTestServer(&stubEstimator{}, &memStore{})
	req := httptest.NewRequest(http.MethodPost, "/v1/estimates", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateEstimatePersistFailure(t *testing.T) {
	est := &stubEstimator{result: estimation.EstimationResult{BasePrice: 1, AdjustmentFactor: 1, FinalPrice: 1}}
	store := &memStore{saveErr: errSave}
	h := newTestServer(est, store)
	rr := postJSON(t, h, "/v1/estimates", validBody())
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

var errSave = &persistError{}

type persistError struct{}

func (*persistError) Error() string { return "disk full" }

func TestListEstimates(t *testing.T) {
	store := &memStore{saved: []records.EstimateRecord{{EstimateID: "a"}, {EstimateID: "b"}}}
	h := newTestServer(&stubEstimator{}, store)

	rr := get(h, "/v1/estimates?limit=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Estimates []records.EstimateRecord `json:"estimates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Estimates) != 1 {
		t.Fatalf("expected limit applied, got %d records", len(payload.Estimates))
	}

	if rr := get(h, "/v1/estimates?limit=zero"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rr.Code)
	}
}

func TestGetEstimateByID(t *testing.T) {
	store := &memStore{saved: []records.EstimateRecord{{EstimateID: "abc", FinalPrice: 42}}}
	h := newTestServer(&stubEstimator{}, store)

	rr := get(h, "/v1/estimates/abc")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr := get(h, "/v1/estimates/missing"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing record, got %d", rr.Code)
	}
}

func TestGetEstimateReport(t *testing.T) {
	store := &memStore{saved: []records.EstimateRecord{{
		EstimateID: "abc",
		Property:   estimation.PropertyAttributes{City: "Guadalajara", Rooms: 3, AreaM2: 120},
		BasePrice:  3200000, AdjustmentFactor: 1.0, FinalPrice: 3200000,
	}}}
	h := newTestServer(&stubEstimator{}, store)

	rr := get(h, "/v1/estimates/abc/report")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("expected markdown content type, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "# Property Appraisal Report") {
		t.Fatalf("expected rendered report, got: %s", rr.Body.String())
	}
}

func TestCreateEstimateRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	est := &stubEstimator{result: estimation.EstimationResult{
		BasePrice: 3200000, AdjustmentFactor: 1.1, FinalPrice: 3520000, Adjusted: true,
	}}
	h := newTestServer(est, &memStore{})

	if rr := postJSON(t, h, "/v1/estimates", validBody()); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	if spans[0].Name() != "httpapi.CreateEstimate" {
		t.Fatalf("unexpected span name %q", spans[0].Name())
	}
	var sawAdjusted bool
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "estimate.adjusted" && attr.Value.AsBool() {
			sawAdjusted = true
		}
	}
	if !sawAdjusted {
		t.Fatal("expected estimate.adjusted attribute on span")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&stubEstimator{}, &memStore{})
	req := httptest.NewRequest(http.MethodDelete, "/v1/estimates", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(&stubEstimator{}, &memStore{})
	if rr := get(h, "/v1/health"); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
