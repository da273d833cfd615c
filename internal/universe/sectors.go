// Package universe provides the reference ticker universe and cache-first
// price access for the screening engine.
package universe

// Sector ticker lists. These mirror the dashboard's built-in screening
// universe; arbitrary tickers are still accepted by the engine endpoints.
var sectorTickers = map[string][]string{
	"Finance":    {"JPM", "BAC", "WFC", "GS", "MS"},
	"Healthcare": {"JNJ", "PFE", "MRK", "UNH", "ABBV"},
	"Tech":       {"AAPL", "MSFT", "GOOGL", "AMZN", "META"},
	"Energy":     {"XOM", "CVX", "COP", "SLB", "EOG"},
}

// sectorOrder fixes the listing order (map iteration is randomized).
var sectorOrder = []string{"Finance", "Healthcare", "Tech", "Energy"}

// Sectors returns the known sector names in a stable order.
func Sectors() []string {
	out := make([]string, len(sectorOrder))
	copy(out, sectorOrder)
	return out
}

// SectorTickers returns the tickers belonging to a sector, or false when the
// sector is unknown.
func SectorTickers(sector string) ([]string, bool) {
	tickers, ok := sectorTickers[sector]
	if !ok {
		return nil, false
	}
	out := make([]string, len(tickers))
	copy(out, tickers)
	return out, true
}
