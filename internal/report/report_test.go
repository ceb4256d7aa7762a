package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"bazaar-flipper/internal/engine"
)

func sampleEntries() engine.RankedResult {
	return engine.RankedResult{
		{
			Product: "ENCHANTED_DIAMOND", ProductRevenue: 1300, RecipeCost: 1040, Profit: 260, MarginPercent: 25,
			BuyVolume: 1234567,
			Recipe: engine.Recipe{Product: "ENCHANTED_DIAMOND", Components: []engine.ComponentRequirement{
				{Item: "DIAMOND", Quantity: 32}, {Item: "DIAMOND", Quantity: 128},
			}},
		},
		{Product: "ENCHANTED_COAL", ProductRevenue: 300, RecipeCost: 320, Profit: -20, MarginPercent: -6.25, BuyVolume: 40},
		{Product: "FREEBIE", ProductRevenue: 5, Profit: 5},
	}
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	Banner(&buf, Options{CostBasis: engine.InstantBuy, RevenueBasis: engine.StandingSell, TopN: 10, MinBuyVolume: 25000})
	out := buf.String()
	assert.Contains(t, out, "INSTA-BUY")
	assert.Contains(t, out, "NORM-SELL")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "25,000")

	buf.Reset()
	Banner(&buf, Options{CostBasis: engine.StandingBuy, RevenueBasis: engine.InstantSell})
	out = buf.String()
	assert.Contains(t, out, "NORM-BUY")
	assert.Contains(t, out, "INSTA-SELL")
	assert.Contains(t, out, "all")
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleEntries(), Options{TopN: 2, ShowRecipe: true})
	out := buf.String()

	assert.Contains(t, out, "ENCHANTED_DIAMOND")
	assert.Contains(t, out, "ENCHANTED_COAL")
	assert.NotContains(t, out, "FREEBIE")
	assert.Contains(t, out, "1,300.00")
	assert.Contains(t, out, "1,234,567")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "DIAMOND x160")
	assert.Contains(t, out, "Showing 2 of 3")

	// Best entry is printed first.
	assert.Less(t, strings.Index(out, "ENCHANTED_DIAMOND"), strings.Index(out, "ENCHANTED_COAL"))
}

func TestRender_AllAndFreeRecipe(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleEntries(), Options{})
	out := buf.String()
	assert.Contains(t, out, "FREEBIE")
	assert.NotContains(t, out, "Showing")
	assert.NotContains(t, out, "DIAMOND x160")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil, Options{TopN: 10})
	assert.Contains(t, buf.String(), "No craftable products")
}
