package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestCollectAttributesHappyPath(t *testing.T) {
	input := strings.Join([]string{
		"Jalisco", "Guadalajara", "Americana", "Av. Chapultepec 120",
		"3", "2", "y", "120", "y", "house", "12", "good", "mid-range", "n",
	}, "\n") + "\n"

	var out bytes.Buffer
	attrs := collectAttributes(bufio.NewReader(strings.NewReader(input)), &out)

	if attrs.State != "Jalisco" || attrs.City != "Guadalajara" {
		t.Fatalf("location fields wrong: %+v", attrs)
	}
	if attrs.Rooms != 3 || attrs.Bathrooms != 2 || attrs.AreaM2 != 120 {
		t.Fatalf("numeric fields wrong: %+v", attrs)
	}
	if !attrs.HasGarage || !attrs.HasBasicServices || attrs.HasSecuritySystem {
		t.Fatalf("boolean fields wrong: %+v", attrs)
	}
	if attrs.PropertyType != "house" || attrs.AgeYears != 12 {
		t.Fatalf("type/age wrong: %+v", attrs)
	}
}

func TestCollectAttributesReasksOnBadInput(t *testing.T) {
	// rooms: "three" then "-1" then "3"; area: "0" then "120".
	input := strings.Join([]string{
		"", "", "", "",
		"three", "-1", "3",
		"2", "y",
		"0", "120",
		"y", "house", "12", "good", "mid-range", "n",
	}, "\n") + "\n"

	var out bytes.Buffer
	attrs := collectAttributes(bufio.NewReader(strings.NewReader(input)), &out)

	if attrs.Rooms != 3 {
		t.Fatalf("expected rooms=3 after re-asks, got %d", attrs.Rooms)
	}
	if attrs.AreaM2 != 120 {
		t.Fatalf("expected area=120 after rejecting 0, got %g", attrs.AreaM2)
	}
	if !strings.Contains(out.String(), "whole number >= 0") {
		t.Fatal("expected integer re-ask message")
	}
	if !strings.Contains(out.String(), "number > 0") {
		t.Fatal("expected strictly-positive re-ask message")
	}
}

func TestPromptBoolAcceptsSpanishYes(t *testing.T) {
	var out bytes.Buffer
	got := promptBool(bufio.NewReader(strings.NewReader("si\n")), &out, "Garage")
	if !got {
		t.Fatal("expected si to mean yes")
	}
}

func TestPromptBoolReasks(t *testing.T) {
	var out bytes.Buffer
	got := promptBool(bufio.NewReader(strings.NewReader("maybe\nn\n")), &out, "Garage")
	if got {
		t.Fatal("expected n after re-ask")
	}
	if !strings.Contains(out.String(), "answer y or n") {
		t.Fatal("expected re-ask message")
	}
}

func TestPromptFloatRejectsNonFiniteValues(t *testing.T) {
	var out bytes.Buffer
	got := promptFloat(bufio.NewReader(strings.NewReader("NaN\n+Inf\n-Inf\n120\n")), &out, "Area in m2", 0, true)
	if got != 120 {
		t.Fatalf("expected 120 after rejecting non-finite values, got %g", got)
	}
	if n := strings.Count(out.String(), "number > 0"); n != 3 {
		t.Fatalf("expected 3 re-ask messages for NaN/+Inf/-Inf, got %d", n)
	}
}

func TestPromptFloatRejectsNaNAtInclusiveMinimum(t *testing.T) {
	var out bytes.Buffer
	got := promptFloat(bufio.NewReader(strings.NewReader("nan\n1.5\n")), &out, "Bathrooms", 0, false)
	if got != 1.5 {
		t.Fatalf("expected 1.5 after rejecting nan, got %g", got)
	}
	if !strings.Contains(out.String(), "number >= 0") {
		t.Fatal("expected re-ask message for nan")
	}
}

func TestPromptFloatAllowsHalves(t *testing.T) {
	var out bytes.Buffer
	got := promptFloat(bufio.NewReader(strings.NewReader("1.5\n")), &out, "Bathrooms", 0, false)
	if got != 1.5 {
		t.Fatalf("expected 1.5, got %g", got)
	}
}
