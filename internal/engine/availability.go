package engine

// IsAvailable reports whether product and every distinct component are quoted
// in snap. Prices and book depth are not looked at.
func IsAvailable(product ItemSymbol, distinct []ItemSymbol, snap *Snapshot) bool {
	if !snap.Has(product) {
		return false
	}
	for _, sym := range distinct {
		if !snap.Has(sym) {
			return false
		}
	}
	return true
}
