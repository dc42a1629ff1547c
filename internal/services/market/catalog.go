package market

// catalogEntry is one searchable symbol. price is the reference anchor for
// synthetic quotes; zero means no anchor (derive from the symbol itself).
type catalogEntry struct {
	name  string
	price float64
}

// catalog is the demo symbol universe used for search and synthetic
// anchoring. Prices are reference values, not live data.
var catalog = map[string]catalogEntry{
	"AAPL":  {name: "Apple Inc.", price: 182.52},
	"GOOGL": {name: "Alphabet Inc.", price: 138.21},
	"MSFT":  {name: "Microsoft Corporation", price: 378.85},
	"TSLA":  {name: "Tesla Inc.", price: 248.42},
	"AMZN":  {name: "Amazon.com Inc.", price: 154.63},
	"META":  {name: "Meta Platforms Inc.", price: 485.75},
	"NVDA":  {name: "NVIDIA Corporation", price: 118.11},
	"JPM":   {name: "JPMorgan Chase & Co."},
	"JNJ":   {name: "Johnson & Johnson"},
	"V":     {name: "Visa Inc."},
	"WMT":   {name: "Walmart Inc."},
	"DIS":   {name: "The Walt Disney Company"},
	"NFLX":  {name: "Netflix Inc."},
	"AMD":   {name: "Advanced Micro Devices Inc."},
	"INTC":  {name: "Intel Corporation"},
	"CSCO":  {name: "Cisco Systems Inc."},
	"PEP":   {name: "PepsiCo Inc."},
	"KO":    {name: "The Coca-Cola Company"},
	"XOM":   {name: "Exxon Mobil Corporation"},
	"BAC":   {name: "Bank of America Corporation"},
	"SPY":   {name: "SPDR S&P 500 ETF Trust"},
}
