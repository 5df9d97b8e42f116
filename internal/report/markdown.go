// Package report renders stored estimates for people: markdown, HTML and PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/records"
)

// BuildMarkdown renders one estimate into an appraisal report. Deterministic
// for a given record and factor set.
func BuildMarkdown(rec records.EstimateRecord, factors estimation.PriceFactors) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Property Appraisal Report\n\n")
	fmt.Fprintf(&b, "- Estimate ID: %s\n", rec.EstimateID)
	fmt.Fprintf(&b, "- Date: %s\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Mode: %s\n\n", modeLabel(rec.Adjusted))

	a := rec.Property
	fmt.Fprintf(&b, "## Property\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Location | %s |\n", location(a))
	fmt.Fprintf(&b, "| Type | %s |\n", a.PropertyType)
	fmt.Fprintf(&b, "| Rooms | %d |\n", a.Rooms)
	fmt.Fprintf(&b, "| Bathrooms | %g |\n", a.Bathrooms)
	fmt.Fprintf(&b, "| Area | %g m2 |\n", a.AreaM2)
	fmt.Fprintf(&b, "| Garage | %s |\n", yesNo(a.HasGarage))
	fmt.Fprintf(&b, "| Basic services | %s |\n", yesNo(a.HasBasicServices))
	fmt.Fprintf(&b, "| Security system | %s |\n", yesNo(a.HasSecuritySystem))
	fmt.Fprintf(&b, "| Age | %d years |\n", a.AgeYears)
	fmt.Fprintf(&b, "| Condition | %s |\n", a.Condition)
	fmt.Fprintf(&b, "| Finish quality | %s |\n\n", a.FinishQuality)

	fmt.Fprintf(&b, "## Base Price Breakdown\n\n")
	fmt.Fprintf(&b, "| Component | Contribution |\n|---|---|\n")
	fmt.Fprintf(&b, "| Rooms (%d x %.0f) | %.2f |\n", a.Rooms, factors.Room, float64(a.Rooms)*factors.Room)
	fmt.Fprintf(&b, "| Bathrooms (%g x %.0f) | %.2f |\n", a.Bathrooms, factors.Bathroom, a.Bathrooms*factors.Bathroom)
	fmt.Fprintf(&b, "| Area (%g m2 x %.0f) | %.2f |\n", a.AreaM2, factors.SquareMeter, a.AreaM2*factors.SquareMeter)
	fmt.Fprintf(&b, "| Garage | %.2f |\n", boolContribution(a.HasGarage, factors.Garage))
	fmt.Fprintf(&b, "| Basic services | %.2f |\n", boolContribution(a.HasBasicServices, factors.BasicServices))
	fmt.Fprintf(&b, "| **Base price** | **%.2f** |\n\n", rec.BasePrice)

	fmt.Fprintf(&b, "## Market Adjustment\n\n")
	if rec.Adjusted {
		fmt.Fprintf(&b, "A model-derived adjustment factor of %g was applied to the base price.\n\n", rec.AdjustmentFactor)
	} else {
		fmt.Fprintf(&b, "The market adjustment step could not produce a usable factor; the estimate is the unadjusted formula price.\n\n")
	}
	fmt.Fprintf(&b, "## Estimated Price\n\n")
	fmt.Fprintf(&b, "**%.2f**\n\n", rec.FinalPrice)
	fmt.Fprintf(&b, "---\n\n*%s*\n", estimation.Disclaimer)
	return b.String()
}

func modeLabel(adjusted bool) string {
	if adjusted {
		return "ADJUSTED"
	}
	return "FORMULA_ONLY"
}

func location(a estimation.PropertyAttributes) string {
	parts := []string{}
	for _, p := range []string{a.Street, a.District, a.City, a.State} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "unspecified"
	}
	return strings.Join(parts, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func boolContribution(present bool, weight float64) float64 {
	if present {
		return weight
	}
	return 0
}
