// Package bazaar fetches and caches the public SkyBlock bazaar snapshot.
package bazaar

import "time"

// Response is the top-level bazaar payload.
type Response struct {
	Success     bool               `json:"success"`
	Cause       string             `json:"cause,omitempty"`
	LastUpdated int64              `json:"lastUpdated"` // unix millis
	Products    map[string]Product `json:"products"`
}

// UpdatedAt converts LastUpdated to a time. Zero when the field was absent.
func (r *Response) UpdatedAt() time.Time {
	if r == nil || r.LastUpdated == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.LastUpdated)
}

// Product is one tradeable item. BuySummary holds the offers an instant buy
// fills against; SellSummary the orders an instant sell fills against. Either
// may be empty when the book side is momentarily bare.
type Product struct {
	ProductID   string         `json:"product_id"`
	QuickStatus QuickStatus    `json:"quick_status"`
	BuySummary  []OrderSummary `json:"buy_summary"`
	SellSummary []OrderSummary `json:"sell_summary"`
}

// QuickStatus carries the slower-moving reference prices and volumes.
type QuickStatus struct {
	ProductID      string  `json:"productId"`
	BuyPrice       float64 `json:"buyPrice"`
	SellPrice      float64 `json:"sellPrice"`
	BuyVolume      int64   `json:"buyVolume"`
	SellVolume     int64   `json:"sellVolume"`
	BuyMovingWeek  int64   `json:"buyMovingWeek"`
	SellMovingWeek int64   `json:"sellMovingWeek"`
	BuyOrders      int64   `json:"buyOrders"`
	SellOrders     int64   `json:"sellOrders"`
}

// OrderSummary is one aggregated price level of a book side.
type OrderSummary struct {
	Amount       int64   `json:"amount"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Orders       int64   `json:"orders"`
}
