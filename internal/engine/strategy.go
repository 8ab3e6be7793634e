package engine

// rfRule computes the transferable quantity for one RF record under a mode.
// It returns false when the record is ineligible or the computed quantity
// is not strictly positive.
type rfRule struct {
	tag TransferType
	qty func(available, netStock, moq, safetyStock, effectiveSales, partitionMax int) (int, bool)
}

// ruleForMode returns the RF rule for the selected mode. The set is closed:
// every mode maps to exactly one rule, chosen once per run.
func ruleForMode(mode Mode) rfRule {
	switch mode {
	case ModeEnhanced:
		return rfRule{tag: TransferRFEnhanced, qty: enhancedQty}
	case ModeSpecial:
		return rfRule{tag: TransferRFSpecial, qty: specialQty}
	default:
		return rfRule{tag: TransferRFExcess, qty: conservativeQty}
	}
}

// conservativeQty keeps the site above its safety stock and ships at most
// half of availability.
func conservativeQty(available, netStock, _, safetyStock, _, _ int) (int, bool) {
	if available <= safetyStock {
		return 0, false
	}
	q := min3(available-safetyStock, available/2, netStock)
	return q, q > 0
}

// enhancedQty keeps the site above MOQ+1 and ships at most 80% of
// availability.
func enhancedQty(available, netStock, moq, _, _, _ int) (int, bool) {
	if available <= moq+1 {
		return 0, false
	}
	q := min3(available-(moq+1), available*4/5, netStock)
	return q, q > 0
}

// specialQty drains the site down to 2 units, at most 90% of availability,
// and never takes from the partition's top seller. With netStock < 2 the
// base term goes negative and the site simply yields no candidate.
func specialQty(available, netStock, _, _, effectiveSales, partitionMax int) (int, bool) {
	if available <= 0 || effectiveSales >= partitionMax {
		return 0, false
	}
	q := min3(netStock-2, available*9/10, netStock)
	return q, q > 0
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
