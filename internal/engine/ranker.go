package engine

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"bazaar-flipper/internal/config"
)

// RankParams are the caller's ranking knobs.
type RankParams struct {
	CostBasis    CostBasis
	RevenueBasis RevenueBasis
	MinBuyVolume int64 // 0 disables the liquidity floor
	Workers      int   // > 1 evaluates products concurrently
}

// ParamsFromOptions validates o and converts it to RankParams.
func ParamsFromOptions(o config.RankOptions) (RankParams, error) {
	if err := o.Validate(); err != nil {
		return RankParams{}, err
	}
	cost, err := ParseCostBasis(o.CostBasis)
	if err != nil {
		return RankParams{}, err
	}
	revenue, err := ParseRevenueBasis(o.RevenueBasis)
	if err != nil {
		return RankParams{}, err
	}
	return RankParams{
		CostBasis:    cost,
		RevenueBasis: revenue,
		MinBuyVolume: o.MinBuyVolume,
		Workers:      o.Workers,
	}, nil
}

// RankStats counts what happened to each candidate in a pass.
type RankStats struct {
	Candidates  int `json:"candidates"`
	Unavailable int `json:"unavailable"`
	BelowVolume int `json:"below_volume"`
	Unpriced    int `json:"unpriced"`
	Ranked      int `json:"ranked"`
}

type outcome int

const (
	outcomeRanked outcome = iota
	outcomeUnavailable
	outcomeBelowVolume
	outcomeUnpriced
)

type evaluation struct {
	outcome outcome
	entry   ProfitEntry
	err     error
}

// Rank scores every available product and sorts by profit.
func Rank(catalog *Catalog, snap *Snapshot, params RankParams) (RankedResult, error) {
	result, _, err := RankWithStats(catalog, snap, params)
	return result, err
}

// RankWithStats is Rank plus per-reason skip counts. Any malformed recipe or
// unknown component aborts the pass with no partial result.
func RankWithStats(catalog *Catalog, snap *Snapshot, params RankParams) (RankedResult, RankStats, error) {
	if catalog == nil || snap == nil {
		return nil, RankStats{}, errors.New("rank: catalog and snapshot are required")
	}
	products := catalog.Products()
	evals := make([]evaluation, len(products))

	if params.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(params.Workers)
		for i, p := range products {
			g.Go(func() error {
				evals[i] = evaluate(catalog, snap, p, params)
				return nil
			})
		}
		// Workers record failures in evals so the first error by product
		// order wins regardless of scheduling.
		_ = g.Wait()
	} else {
		for i, p := range products {
			evals[i] = evaluate(catalog, snap, p, params)
			if evals[i].err != nil {
				break
			}
		}
	}

	stats := RankStats{Candidates: len(products)}
	result := make(RankedResult, 0, len(products))
	for _, ev := range evals {
		if ev.err != nil {
			return nil, RankStats{}, fmt.Errorf("rank: %w", ev.err)
		}
		switch ev.outcome {
		case outcomeUnavailable:
			stats.Unavailable++
		case outcomeBelowVolume:
			stats.BelowVolume++
		case outcomeUnpriced:
			stats.Unpriced++
		default:
			result = append(result, ev.entry)
		}
	}
	stats.Ranked = len(result)

	sort.Slice(result, func(i, j int) bool {
		if result[i].Profit != result[j].Profit {
			return result[i].Profit > result[j].Profit
		}
		return result[i].Product < result[j].Product
	})
	return result, stats, nil
}

func evaluate(catalog *Catalog, snap *Snapshot, product ItemSymbol, params RankParams) evaluation {
	recipe, err := catalog.Recipe(product)
	if err != nil {
		return evaluation{err: err}
	}
	if !IsAvailable(product, distinct(recipe.Components), snap) {
		return evaluation{outcome: outcomeUnavailable}
	}
	quote, _ := snap.Quote(product)
	if quote.BuyVolume < params.MinBuyVolume {
		return evaluation{outcome: outcomeBelowVolume}
	}
	cost, err := RecipeCost(recipe, snap, params.CostBasis)
	if errors.Is(err, ErrUnpricedComponent) {
		return evaluation{outcome: outcomeUnpriced}
	}
	if err != nil {
		return evaluation{err: err}
	}
	revenue := ProductRevenue(quote, params.RevenueBasis)
	return evaluation{entry: newProfitEntry(recipe, revenue, cost, quote.BuyVolume)}
}
