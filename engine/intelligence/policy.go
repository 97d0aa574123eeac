package intelligence

// Policy holds the product decisions baked into prompt text: they are
// configuration data, not code, so operators can adjust them without a
// release.
type Policy struct {
	// Brand is the operator name the assistant speaks for.
	Brand string
	// EmergencyNumber is the local emergency number callers are
	// redirected to.
	EmergencyNumber string
	// SupportLine is the human customer-care short number mentioned by
	// the safe fallback reply.
	SupportLine string
	// OfficialPriceMinTRY and OfficialPriceMaxTRY bound the official
	// package price band; prices quoted outside it trigger a scam warning.
	OfficialPriceMinTRY float64
	OfficialPriceMaxTRY float64
}

// DefaultPolicy returns the policy shipped with the assistant.
func DefaultPolicy() Policy {
	return Policy{
		Brand:               "Turkcell",
		EmergencyNumber:     "112",
		SupportLine:         "532",
		OfficialPriceMinTRY: 150,
		OfficialPriceMaxTRY: 1200,
	}
}
