package engine

// ComponentLine is one recipe component priced against a snapshot.
type ComponentLine struct {
	Item      ItemSymbol `json:"item"`
	Quantity  int        `json:"quantity"`
	Quoted    bool       `json:"quoted"`
	Priced    bool       `json:"priced"`
	UnitPrice float64    `json:"unit_price"`
	LineCost  float64    `json:"line_cost"`
}

// Breakdown explains how one product would be scored. Unlike Rank it never
// drops the product: unquoted or unpriced components are flagged per line.
type Breakdown struct {
	Product        ItemSymbol      `json:"product"`
	Available      bool            `json:"available"`
	Priced         bool            `json:"priced"`
	Components     []ComponentLine `json:"components"`
	RecipeCost     float64         `json:"recipe_cost"`
	ProductRevenue float64         `json:"product_revenue"`
	Profit         float64         `json:"profit"`
	BuyVolume      int64           `json:"buy_volume"`
}

// Explain prices product's recipe line by line. It fails only when the
// product is not craftable or its recipe is malformed.
func Explain(catalog *Catalog, snap *Snapshot, product ItemSymbol, params RankParams) (*Breakdown, error) {
	recipe, err := catalog.Recipe(product)
	if err != nil {
		return nil, err
	}
	b := &Breakdown{
		Product:    product,
		Available:  IsAvailable(product, distinct(recipe.Components), snap),
		Priced:     true,
		Components: make([]ComponentLine, 0, len(recipe.Components)),
	}
	for _, c := range recipe.Components {
		line := ComponentLine{Item: c.Item, Quantity: c.Quantity}
		if q, ok := snap.Quote(c.Item); ok {
			line.Quoted = true
			line.UnitPrice, line.Priced = componentPrice(q, params.CostBasis)
			line.LineCost = line.UnitPrice * float64(c.Quantity)
		}
		if !line.Priced {
			b.Priced = false
		}
		b.RecipeCost += line.LineCost
		b.Components = append(b.Components, line)
	}
	if q, ok := snap.Quote(product); ok {
		b.ProductRevenue = ProductRevenue(q, params.RevenueBasis)
		b.BuyVolume = q.BuyVolume
	}
	b.Profit = b.ProductRevenue - b.RecipeCost
	return b, nil
}
