package twelvedata

// pairAliases maps compact pair spellings to the provider's slashed form.
var pairAliases = map[string]string{
	"XAUUSD": "XAU/USD",
	"EURUSD": "EUR/USD",
	"GBPUSD": "GBP/USD",
}

// FormatSymbol translates a compact pair like "XAUUSD" into the symbol the
// provider expects. Unknown symbols pass through untouched so instruments
// already in provider form keep working.
func FormatSymbol(pair string) string {
	if s, ok := pairAliases[pair]; ok {
		return s
	}
	return pair
}
