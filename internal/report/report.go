// Package report renders rankings as console tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"bazaar-flipper/internal/engine"
)

// Options controls what Banner and Render print.
type Options struct {
	CostBasis    engine.CostBasis
	RevenueBasis engine.RevenueBasis
	TopN         int // 0 = all entries
	MinBuyVolume int64
	ShowRecipe   bool
}

// Banner prints the active ranking configuration.
func Banner(w io.Writer, opts Options) {
	entries := "all"
	if opts.TopN > 0 {
		entries = strconv.Itoa(opts.TopN)
	}
	rule := strings.Repeat("_", 72)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "CURRENT CONFIGURATION:")
	fmt.Fprintf(w, "  Recipe:             %s\n", costLabel(opts.CostBasis))
	fmt.Fprintf(w, "  Product:            %s\n", revenueLabel(opts.RevenueBasis))
	fmt.Fprintf(w, "  Num of entries:     %s\n", entries)
	fmt.Fprintf(w, "  Minimum buy volume: %s\n", humanize.Comma(opts.MinBuyVolume))
	fmt.Fprintln(w, rule)
}

func costLabel(b engine.CostBasis) string {
	if b == engine.InstantBuy {
		return "INSTA-BUY"
	}
	return "NORM-BUY"
}

func revenueLabel(b engine.RevenueBasis) string {
	if b == engine.InstantSell {
		return "INSTA-SELL"
	}
	return "NORM-SELL"
}

// Render writes the top entries as a table.
func Render(w io.Writer, entries engine.RankedResult, opts Options) {
	top := entries.Top(opts.TopN)
	if len(top) == 0 {
		fmt.Fprintln(w, "No craftable products passed the filters.")
		return
	}

	header := []string{"#", "Product", "Profit", "Revenue", "Recipe Cost", "Margin", "Buy Volume"}
	align := []int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	}
	if opts.ShowRecipe {
		header = append(header, "Recipe")
		align = append(align, tablewriter.ALIGN_LEFT)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment(align)
	table.SetAutoWrapText(false)

	for i, e := range top {
		row := []string{
			strconv.Itoa(i + 1),
			string(e.Product),
			money(e.Profit),
			money(e.ProductRevenue),
			money(e.RecipeCost),
			margin(e),
			humanize.Comma(e.BuyVolume),
		}
		if opts.ShowRecipe {
			row = append(row, recipeSummary(e.Recipe))
		}
		table.Append(row)
	}
	table.Render()

	if len(top) < len(entries) {
		fmt.Fprintf(w, "Showing %d of %d ranked products.\n", len(top), len(entries))
	}
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func margin(e engine.ProfitEntry) string {
	if e.RecipeCost <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", e.MarginPercent)
}

// recipeSummary merges repeated components: "DIAMOND x160".
func recipeSummary(r engine.Recipe) string {
	totals := make(map[engine.ItemSymbol]int)
	var order []engine.ItemSymbol
	for _, c := range r.Components {
		if _, ok := totals[c.Item]; !ok {
			order = append(order, c.Item)
		}
		totals[c.Item] += c.Quantity
	}
	parts := make([]string, 0, len(order))
	for _, sym := range order {
		parts = append(parts, fmt.Sprintf("%s x%d", sym, totals[sym]))
	}
	return strings.Join(parts, ", ")
}
