package order

// Pricing policy. All amounts are integer cents so that totals stay
// exact regardless of how many line items an order carries.
const (
	// Orders with a subtotal above this ship for free.
	freeShippingThresholdCents int64 = 100_00

	// Flat shipping fee below the threshold.
	flatShippingCents int64 = 10_00

	// Flat tax rate, percent of subtotal.
	taxRatePercent int64 = 8
)

type LineAmount struct {
	PriceCents int64
	Quantity   int
}

type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// ComputeTotals derives the order totals from its line items. Tax is
// rounded half-up to whole cents at computation time so persisted
// totals never drift from what was charged.
func ComputeTotals(lines []LineAmount) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.PriceCents * int64(l.Quantity)
	}

	var shipping int64
	if subtotal <= freeShippingThresholdCents {
		shipping = flatShippingCents
	}

	tax := (subtotal*taxRatePercent + 50) / 100

	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
	}
}
