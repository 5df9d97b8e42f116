package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/records"
)

func testRecord(adjusted bool) records.EstimateRecord {
	return records.EstimateRecord{
		EstimateID:       "e-123",
		CreatedAt:        time.Date(2026, 2, 17, 10, 30, 0, 0, time.UTC),
		Property:         estimation.PropertyAttributes{City: "Guadalajara", Rooms: 3, AreaM2: 120},
		BasePrice:        3200000,
		AdjustmentFactor: 1.1,
		FinalPrice:       3520000,
		Adjusted:         adjusted,
	}
}

func TestPrintResultAdjusted(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, testRecord(true))

	for _, want := range []string{
		"Base price:        3200000.00",
		"Adjustment factor: 1.1",
		"Estimated price:   3520000.00",
		"Saved as:          e-123",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintResultFallback(t *testing.T) {
	rec := testRecord(false)
	rec.AdjustmentFactor = 1.0
	rec.FinalPrice = rec.BasePrice

	var out bytes.Buffer
	printResult(&out, rec)

	if !strings.Contains(out.String(), "formula price only") {
		t.Fatalf("expected formula-only notice:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Estimated price:   3200000.00") {
		t.Fatalf("expected base price as estimate:\n%s", out.String())
	}
}
