package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/davidromero/avaluo/internal/estimation"
)

// collectAttributes walks the user through every field. Each prompt re-asks
// until the answer satisfies the field's invariant, so the estimation core
// always receives valid attributes.
func collectAttributes(in *bufio.Reader, out io.Writer) estimation.PropertyAttributes {
	fmt.Fprintln(out, "Property details (press Enter after each answer):")
	var a estimation.PropertyAttributes
	a.State = promptString(in, out, "State")
	a.City = promptString(in, out, "City")
	a.District = promptString(in, out, "District")
	a.Street = promptString(in, out, "Street")
	a.Rooms = promptInt(in, out, "Rooms", 0)
	a.Bathrooms = promptFloat(in, out, "Bathrooms (halves allowed)", 0, false)
	a.HasGarage = promptBool(in, out, "Garage")
	a.AreaM2 = promptFloat(in, out, "Area in m2", 0, true)
	a.HasBasicServices = promptBool(in, out, "Basic services (water, power, drainage)")
	a.PropertyType = promptString(in, out, "Property type (house/apartment/land)")
	a.AgeYears = promptInt(in, out, "Age in years", 0)
	a.Condition = promptString(in, out, "Condition")
	a.FinishQuality = promptString(in, out, "Finish quality")
	a.HasSecuritySystem = promptBool(in, out, "Security system")
	return a
}

func readLine(in *bufio.Reader) string {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		log.Fatal("input closed")
	}
	return strings.TrimSpace(line)
}

func promptString(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	return readLine(in)
}

func promptInt(in *bufio.Reader, out io.Writer, label string, min int) int {
	for {
		fmt.Fprintf(out, "%s: ", label)
		raw := readLine(in)
		v, err := strconv.Atoi(raw)
		if err != nil || v < min {
			fmt.Fprintf(out, "Please enter a whole number >= %d.\n", min)
			continue
		}
		return v
	}
}

func promptFloat(in *bufio.Reader, out io.Writer, label string, min float64, exclusive bool) float64 {
	for {
		fmt.Fprintf(out, "%s: ", label)
		raw := readLine(in)
		v, err := strconv.ParseFloat(raw, 64)
		// ParseFloat accepts "NaN" and "Inf"; neither satisfies any field
		// invariant, and NaN in particular slips past < comparisons.
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < min || (exclusive && v == min) {
			cmp := ">="
			if exclusive {
				cmp = ">"
			}
			fmt.Fprintf(out, "Please enter a number %s %g.\n", cmp, min)
			continue
		}
		return v
	}
}

func promptBool(in *bufio.Reader, out io.Writer, label string) bool {
	for {
		fmt.Fprintf(out, "%s (y/n): ", label)
		switch strings.ToLower(readLine(in)) {
		case "y", "yes", "s", "si", "sí":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}
