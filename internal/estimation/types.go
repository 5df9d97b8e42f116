package estimation

const Disclaimer = "This is an automated preliminary estimate, not a certified appraisal. " +
	"The figure combines a weighted structural formula with a model-derived market adjustment and carries no legal weight."

// Nominal bounds the model is instructed to respect. Parseable values outside
// this range are still accepted (see ExtractFactor).
const (
	FactorFloor = 0.8
	FactorCeil  = 1.2
)

// PropertyAttributes describes one residential property as collected from the
// user. Values are validated at the collection boundary (CLI prompts, HTTP
// handler); the estimation core trusts them as-is.
type PropertyAttributes struct {
	State             string  `json:"state"`
	City              string  `json:"city"`
	District          string  `json:"district"`
	Street            string  `json:"street"`
	Rooms             int     `json:"rooms"`
	Bathrooms         float64 `json:"bathrooms"`
	HasGarage         bool    `json:"has_garage"`
	AreaM2            float64 `json:"area_m2"`
	HasBasicServices  bool    `json:"has_basic_services"`
	PropertyType      string  `json:"property_type"`
	AgeYears          int     `json:"age_years"`
	Condition         string  `json:"condition"`
	FinishQuality     string  `json:"finish_quality"`
	HasSecuritySystem bool    `json:"has_security_system"`
}

// PriceFactors holds the per-unit weights of the base formula. A value is
// built once and passed around; nothing mutates it after construction.
type PriceFactors struct {
	Room          float64 `json:"room"`
	Bathroom      float64 `json:"bathroom"`
	Garage        float64 `json:"garage"`
	SquareMeter   float64 `json:"square_meter"`
	BasicServices float64 `json:"basic_services"`
}

var DefaultPriceFactors = PriceFactors{
	Room:          150000,
	Bathroom:      200000,
	Garage:        300000,
	SquareMeter:   15000,
	BasicServices: 250000,
}

// EstimationResult is the outcome of one estimate. Adjusted reports whether
// the model-derived factor was applied; on any failure of the generative step
// the factor is 1.0, FinalPrice equals BasePrice and FallbackReason says why.
type EstimationResult struct {
	BasePrice        float64 `json:"base_price"`
	AdjustmentFactor float64 `json:"adjustment_factor"`
	FinalPrice       float64 `json:"final_price"`
	Adjusted         bool    `json:"adjusted"`
	FallbackReason   string  `json:"fallback_reason,omitempty"`
}
