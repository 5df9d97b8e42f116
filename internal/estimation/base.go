package estimation

// ComputeBasePrice maps structural attributes onto a deterministic price using
// the per-unit weights. Pure; the result is non-negative for any attributes
// satisfying the collection-layer invariants (area > 0, counts >= 0).
func ComputeBasePrice(attrs PropertyAttributes, factors PriceFactors) float64 {
	price := float64(attrs.Rooms)*factors.Room +
		attrs.Bathrooms*factors.Bathroom +
		attrs.AreaM2*factors.SquareMeter
	if attrs.HasGarage {
		price += factors.Garage
	}
	if attrs.HasBasicServices {
		price += factors.BasicServices
	}
	return price
}
