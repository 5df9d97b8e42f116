package estimation

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the property and its base price into the adjustment
// query sent to the model. Field order and phrasing are fixed so identical
// input always yields an identical prompt.
func BuildPrompt(attrs PropertyAttributes, basePrice float64) string {
	var b strings.Builder
	b.WriteString("Evaluate the market adjustment for the following residential property.\n\n")
	fmt.Fprintf(&b, "- State: %s\n", attrs.State)
	fmt.Fprintf(&b, "- City: %s\n", attrs.City)
	fmt.Fprintf(&b, "- District: %s\n", attrs.District)
	fmt.Fprintf(&b, "- Street: %s\n", attrs.Street)
	fmt.Fprintf(&b, "- Rooms: %d\n", attrs.Rooms)
	fmt.Fprintf(&b, "- Bathrooms: %g\n", attrs.Bathrooms)
	fmt.Fprintf(&b, "- Garage: %s\n", yesNo(attrs.HasGarage))
	fmt.Fprintf(&b, "- Area: %g m2\n", attrs.AreaM2)
	fmt.Fprintf(&b, "- Basic services: %s\n", yesNo(attrs.HasBasicServices))
	fmt.Fprintf(&b, "- Property type: %s\n", attrs.PropertyType)
	fmt.Fprintf(&b, "- Age: %d years\n", attrs.AgeYears)
	fmt.Fprintf(&b, "- Condition: %s\n", attrs.Condition)
	fmt.Fprintf(&b, "- Finish quality: %s\n", attrs.FinishQuality)
	fmt.Fprintf(&b, "- Security system: %s\n", yesNo(attrs.HasSecuritySystem))
	fmt.Fprintf(&b, "\nA weighted structural formula estimated a base price of %.2f.\n", basePrice)
	fmt.Fprintf(&b, "Considering the location, age, condition and finish quality, respond with ONLY a decimal number between %.1f and %.1f: the multiplicative adjustment factor to apply to the base price. No explanation, no currency symbols, just the number.\n", FactorFloor, FactorCeil)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
