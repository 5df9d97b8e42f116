// Package httpapi exposes the estimation engine over HTTP. It owns the
// collection-layer validation the core deliberately does not repeat.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/records"
	"github.com/davidromero/avaluo/internal/report"
)

const maxRequestBytes = 1 << 20

// Estimator is the slice of the estimation engine the server consumes.
// Tests substitute a stub.
type Estimator interface {
	Estimate(ctx context.Context, attrs estimation.PropertyAttributes) estimation.EstimationResult
}

// RecordStore persists and reads back estimate records.
type RecordStore interface {
	Save(rec records.EstimateRecord) error
	Get(estimateID string) (records.EstimateRecord, bool, error)
	ListRecent(limit int) ([]records.EstimateRecord, error)
}

type Server struct {
	estimator Estimator
	store     RecordStore
	factors   estimation.PriceFactors
	clock     func() time.Time
	tracer    trace.Tracer
}

func NewServer(estimator Estimator, store RecordStore, factors estimation.PriceFactors) http.Handler {
	s := &Server{
		estimator: estimator,
		store:     store,
		factors:   factors,
		clock:     time.Now,
		tracer:    otel.Tracer("github.com/davidromero/avaluo/internal/httpapi"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/estimates", s.handleEstimates)
	mux.HandleFunc("/v1/estimates/", s.handleEstimateByID)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) handleEstimates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createEstimate(w, r)
	case http.MethodGet:
		s.listEstimates(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET or POST")
	}
}

func (s *Server) createEstimate(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "unable to read request body")
		return
	}
	var attrs estimation.PropertyAttributes
	if err := json.Unmarshal(blob, &attrs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "request body is not valid JSON: "+err.Error())
		return
	}
	if err := validateAttributes(attrs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_attributes", err.Error())
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "httpapi.CreateEstimate")
	defer span.End()

	res := s.estimator.Estimate(ctx, attrs)
	rec := records.NewRecord(attrs, res, s.clock())
	span.SetAttributes(
		attribute.String("estimate.id", rec.EstimateID),
		attribute.Bool("estimate.adjusted", rec.Adjusted),
	)
	if err := s.store.Save(rec); err != nil {
		log.Printf("avaluo estimate_persist_failed estimate_id=%s err=%q", rec.EstimateID, err.Error())
		writeError(w, http.StatusInternalServerError, "persist_failed", "estimate computed but could not be saved")
		return
	}
	log.Printf("avaluo estimate_created estimate_id=%s adjusted=%t final_price=%.2f", rec.EstimateID, rec.Adjusted, rec.FinalPrice)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listEstimates(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := s.store.ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"estimates": recs})
}

func (s *Server) handleEstimateByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/estimates/")
	id := rest
	wantReport := false
	if strings.HasSuffix(rest, "/report") {
		id = strings.TrimSuffix(rest, "/report")
		wantReport = true
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not_found", "unknown path")
		return
	}

	rec, ok, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_failed", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no estimate with id "+id)
		return
	}
	if wantReport {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, report.BuildMarkdown(rec, s.factors))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func validateAttributes(attrs estimation.PropertyAttributes) error {
	var problems []string
	if attrs.AreaM2 <= 0 {
		problems = append(problems, "area_m2 must be > 0")
	}
	if attrs.Rooms < 0 {
		problems = append(problems, "rooms must be >= 0")
	}
	if attrs.Bathrooms < 0 {
		problems = append(problems, "bathrooms must be >= 0")
	}
	if attrs.AgeYears < 0 {
		problems = append(problems, "age_years must be >= 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid property attributes: %s", strings.Join(problems, "; "))
	}
	return nil
}
