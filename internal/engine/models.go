package engine

import (
	"fmt"
	"strings"
)

// ItemSymbol identifies a tradeable item. Case-sensitive.
type ItemSymbol string

// ComponentRequirement is one recipe slot: Quantity units of Item.
type ComponentRequirement struct {
	Item     ItemSymbol `json:"item"`
	Quantity int        `json:"quantity"`
}

// Recipe lists a product's components in slot order, empty slots removed.
// The same item may appear in several slots.
type Recipe struct {
	Product    ItemSymbol             `json:"product"`
	Components []ComponentRequirement `json:"components"`
}

// MarketQuote is the normalized market view of one item.
type MarketQuote struct {
	InstantBuyPrice   float64 `json:"instant_buy_price"`   // top of buy_summary
	InstantSellPrice  float64 `json:"instant_sell_price"`  // top of sell_summary
	StandingBuyPrice  float64 `json:"standing_buy_price"`  // quick_status.buyPrice
	StandingSellPrice float64 `json:"standing_sell_price"` // quick_status.sellPrice
	BuyVolume         int64   `json:"buy_volume"`
	BuyMovingWeek     int64   `json:"buy_moving_week"`
	SellMovingWeek    int64   `json:"sell_moving_week"`
	HasTopBuyOrder    bool    `json:"has_top_buy_order"`
	HasTopSellOrder   bool    `json:"has_top_sell_order"`
}

// CostBasis selects which price a recipe component is bought at.
type CostBasis int

const (
	InstantBuy CostBasis = iota
	StandingBuy
)

func (b CostBasis) String() string {
	switch b {
	case InstantBuy:
		return "instant"
	case StandingBuy:
		return "standing"
	}
	return fmt.Sprintf("CostBasis(%d)", int(b))
}

// ParseCostBasis accepts "instant" or "standing".
func ParseCostBasis(s string) (CostBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instant":
		return InstantBuy, nil
	case "standing":
		return StandingBuy, nil
	}
	return 0, fmt.Errorf("unknown cost basis %q (want instant or standing)", s)
}

// RevenueBasis selects which price the crafted product is sold at.
type RevenueBasis int

const (
	InstantSell RevenueBasis = iota
	StandingSell
)

func (b RevenueBasis) String() string {
	switch b {
	case InstantSell:
		return "instant"
	case StandingSell:
		return "standing"
	}
	return fmt.Sprintf("RevenueBasis(%d)", int(b))
}

// ParseRevenueBasis accepts "instant" or "standing".
func ParseRevenueBasis(s string) (RevenueBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instant":
		return InstantSell, nil
	case "standing":
		return StandingSell, nil
	}
	return 0, fmt.Errorf("unknown revenue basis %q (want instant or standing)", s)
}

// ProfitEntry is one ranked product. Built once by the ranker.
type ProfitEntry struct {
	Product        ItemSymbol `json:"product"`
	ProductRevenue float64    `json:"product_revenue"`
	RecipeCost     float64    `json:"recipe_cost"`
	Profit         float64    `json:"profit"`
	MarginPercent  float64    `json:"margin_percent"` // Profit / RecipeCost * 100; 0 for free recipes
	BuyVolume      int64      `json:"buy_volume"`
	Recipe         Recipe     `json:"recipe"`
}

func newProfitEntry(recipe Recipe, revenue, cost float64, buyVolume int64) ProfitEntry {
	e := ProfitEntry{
		Product:        recipe.Product,
		ProductRevenue: revenue,
		RecipeCost:     cost,
		Profit:         revenue - cost,
		BuyVolume:      buyVolume,
		Recipe:         recipe,
	}
	if cost > 0 {
		e.MarginPercent = e.Profit / cost * 100
	}
	return e
}

// RankedResult is sorted by Profit descending, then Product ascending.
type RankedResult []ProfitEntry

// Top returns the first n entries, or all of them when n <= 0.
func (r RankedResult) Top(n int) RankedResult {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[:n]
}
