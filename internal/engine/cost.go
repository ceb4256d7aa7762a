package engine

// componentPrice returns the unit price of q at basis. ok is false when the
// instant side has no order to fill against.
func componentPrice(q MarketQuote, basis CostBasis) (price float64, ok bool) {
	switch basis {
	case StandingBuy:
		return q.StandingBuyPrice, true
	default:
		if !q.HasTopBuyOrder {
			return 0, false
		}
		return q.InstantBuyPrice, true
	}
}

// RecipeCost sums price*quantity over every component occurrence.
func RecipeCost(recipe Recipe, snap *Snapshot, basis CostBasis) (float64, error) {
	total := 0.0
	for _, c := range recipe.Components {
		q, ok := snap.Quote(c.Item)
		if !ok {
			return 0, &UnknownComponentError{Product: recipe.Product, Item: c.Item}
		}
		price, ok := componentPrice(q, basis)
		if !ok {
			return 0, &UnpricedComponentError{Product: recipe.Product, Item: c.Item, Basis: basis}
		}
		total += price * float64(c.Quantity)
	}
	return total, nil
}

// ProductRevenue is what selling one unit realizes. It falls back to 0 when
// the product has no live buy order, or when selling instantly into an empty
// sell side.
func ProductRevenue(q MarketQuote, basis RevenueBasis) float64 {
	if !q.HasTopBuyOrder {
		return 0
	}
	switch basis {
	case InstantSell:
		if !q.HasTopSellOrder {
			return 0
		}
		return q.InstantSellPrice
	default:
		return q.StandingSellPrice
	}
}
