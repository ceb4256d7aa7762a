package engine

import (
	"time"

	"bazaar-flipper/internal/bazaar"
)

// Snapshot is an immutable symbol -> quote view of one bazaar response.
type Snapshot struct {
	quotes    map[ItemSymbol]MarketQuote
	updatedAt time.Time
}

// NewSnapshot normalizes a bazaar response. A nil response yields an empty
// snapshot.
func NewSnapshot(resp *bazaar.Response) *Snapshot {
	s := &Snapshot{quotes: make(map[ItemSymbol]MarketQuote)}
	if resp == nil {
		return s
	}
	s.updatedAt = resp.UpdatedAt()
	for sym, p := range resp.Products {
		s.quotes[ItemSymbol(sym)] = quoteFromProduct(p)
	}
	return s
}

// SnapshotFromQuotes builds a snapshot from already-normalized quotes.
func SnapshotFromQuotes(quotes map[ItemSymbol]MarketQuote) *Snapshot {
	s := &Snapshot{quotes: make(map[ItemSymbol]MarketQuote, len(quotes))}
	for sym, q := range quotes {
		if q.BuyVolume < 0 {
			q.BuyVolume = 0
		}
		s.quotes[sym] = q
	}
	return s
}

func quoteFromProduct(p bazaar.Product) MarketQuote {
	q := MarketQuote{
		StandingBuyPrice:  p.QuickStatus.BuyPrice,
		StandingSellPrice: p.QuickStatus.SellPrice,
		BuyVolume:         max(p.QuickStatus.BuyVolume, 0),
		BuyMovingWeek:     p.QuickStatus.BuyMovingWeek,
		SellMovingWeek:    p.QuickStatus.SellMovingWeek,
	}
	if len(p.BuySummary) > 0 {
		q.HasTopBuyOrder = true
		q.InstantBuyPrice = p.BuySummary[0].PricePerUnit
	}
	if len(p.SellSummary) > 0 {
		q.HasTopSellOrder = true
		q.InstantSellPrice = p.SellSummary[0].PricePerUnit
	}
	return q
}

// Quote looks up one symbol.
func (s *Snapshot) Quote(sym ItemSymbol) (MarketQuote, bool) {
	q, ok := s.quotes[sym]
	return q, ok
}

// Has reports whether sym is quoted at all.
func (s *Snapshot) Has(sym ItemSymbol) bool {
	_, ok := s.quotes[sym]
	return ok
}

// Len is the number of quoted symbols.
func (s *Snapshot) Len() int { return len(s.quotes) }

// UpdatedAt is the bazaar's own timestamp, zero when unknown.
func (s *Snapshot) UpdatedAt() time.Time { return s.updatedAt }
