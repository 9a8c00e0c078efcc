package lexicon

import "github.com/gcbaptista/news-search-engine/model"

// Category names in detection priority order. Ties between categories resolve to the earliest one.
const (
	Economy    = "economy"
	Market     = "market"
	Health     = "health"
	Technology = "technology"
	Industry   = "industry"
)

// DefaultCategories returns the built-in category table in priority order.
func DefaultCategories() []model.Category {
	return []model.Category{
		{
			Name:        Economy,
			DisplayName: "Economy",
			Description: "Economic news including GDP, inflation, monetary policy, fiscal policy, and macroeconomic trends.",
			Keywords: []string{
				"economy", "economic", "gdp", "inflation", "recession", "growth",
				"federal reserve", "fed", "central bank", "monetary policy",
				"fiscal policy", "budget", "deficit", "surplus", "employment",
				"unemployment", "jobs report", "labor market", "wages", "income",
				"consumer spending", "retail sales", "housing market", "mortgage",
				"interest rate", "treasury", "bond yield", "economic indicator",
				"rate cut", "rate hike", "cpi", "ppi", "gdp growth",
			},
		},
		{
			Name:        Market,
			DisplayName: "Market (Commodities)",
			Description: "Market news covering stocks, commodities, trading, forex, and financial markets.",
			Keywords: []string{
				"market", "stock", "stocks", "shares", "equity", "equities",
				"commodity", "commodities", "oil", "gold", "silver", "copper",
				"wheat", "corn", "trading", "traders", "wall street", "nasdaq",
				"s&p 500", "dow jones", "futures", "options", "derivatives",
				"forex", "currency", "exchange rate", "bitcoin", "crypto",
				"hedge fund", "etf", "index", "bull market", "bear market",
				"rally", "selloff", "ipo", "earnings", "dividend", "yield",
				"investor", "investment", "portfolio", "asset", "securities",
			},
		},
		{
			Name:        Health,
			DisplayName: "Health",
			Description: "Healthcare news including medicine, pharmaceuticals, public health, and medical research.",
			Keywords: []string{
				"health", "healthcare", "medical", "medicine", "hospital",
				"doctor", "patient", "disease", "treatment", "vaccine",
				"pharmaceutical", "drug", "fda", "clinical trial", "therapy",
				"cancer", "diabetes", "heart", "mental health", "pandemic",
				"epidemic", "virus", "covid", "public health", "insurance",
				"medicare", "medicaid", "biotech", "wellness", "nutrition",
			},
		},
		{
			Name:        Technology,
			DisplayName: "Technology",
			Description: "Technology news covering software, hardware, AI, cybersecurity, and tech industry.",
			Keywords: []string{
				"technology", "tech", "software", "hardware", "computer",
				"ai", "artificial intelligence", "machine learning", "data",
				"cloud", "cybersecurity", "cyber", "hack", "digital",
				"internet", "app", "smartphone", "apple", "google", "microsoft",
				"amazon", "meta", "facebook", "startup", "silicon valley",
				"semiconductor", "chip", "processor", "5g", "blockchain",
				"automation", "robot", "quantum", "virtual reality", "ar", "vr",
				"nvidia", "openai", "chatgpt", "llm", "gpu",
			},
		},
		{
			Name:        Industry,
			DisplayName: "Industry",
			Description: "Industry news covering manufacturing, automotive, aerospace, energy, and business sectors.",
			Keywords: []string{
				"industry", "industrial", "manufacturing", "factory", "production",
				"automotive", "auto", "car", "vehicle", "ev", "electric vehicle",
				"aerospace", "airline", "aviation", "shipping", "logistics",
				"supply chain", "retail", "consumer goods", "construction",
				"real estate", "energy", "renewable", "solar", "wind", "oil gas",
				"mining", "steel", "chemical", "agriculture", "food", "beverage",
				"textile", "apparel", "luxury", "entertainment", "media",
			},
		},
	}
}
