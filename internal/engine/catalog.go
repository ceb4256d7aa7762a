package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bazaar-flipper/internal/recipes"
)

// Catalog is the craftable subset of a recipe catalog. Slots are parsed on
// demand so malformed entries surface from the call that touches them.
type Catalog struct {
	slots    map[ItemSymbol]map[string]json.RawMessage
	products []ItemSymbol
}

// NewCatalog keeps every item that carries a recipe object. Items without one
// are raw materials and never candidates.
func NewCatalog(items recipes.Items) *Catalog {
	c := &Catalog{slots: make(map[ItemSymbol]map[string]json.RawMessage)}
	for sym, it := range items {
		if !it.HasRecipe() {
			continue
		}
		c.slots[ItemSymbol(sym)] = it.Recipe
	}
	c.index()
	return c
}

// NewCatalogFromRecipes builds a catalog from plain slot strings.
func NewCatalogFromRecipes(recipeSlots map[ItemSymbol]map[string]string) *Catalog {
	c := &Catalog{slots: make(map[ItemSymbol]map[string]json.RawMessage, len(recipeSlots))}
	for sym, slots := range recipeSlots {
		raw := make(map[string]json.RawMessage, len(slots))
		for k, v := range slots {
			b, _ := json.Marshal(v)
			raw[k] = b
		}
		c.slots[sym] = raw
	}
	c.index()
	return c
}

func (c *Catalog) index() {
	c.products = make([]ItemSymbol, 0, len(c.slots))
	for sym := range c.slots {
		c.products = append(c.products, sym)
	}
	sort.Slice(c.products, func(i, j int) bool { return c.products[i] < c.products[j] })
}

// Products returns the craftable symbols in ascending order.
func (c *Catalog) Products() []ItemSymbol {
	out := make([]ItemSymbol, len(c.products))
	copy(out, c.products)
	return out
}

// Len is the number of craftable products.
func (c *Catalog) Len() int { return len(c.products) }

// Has reports whether product is craftable.
func (c *Catalog) Has(product ItemSymbol) bool {
	_, ok := c.slots[product]
	return ok
}

// ComponentsOf parses product's recipe slots in slot-key order, skipping
// empty slots.
func (c *Catalog) ComponentsOf(product ItemSymbol) ([]ComponentRequirement, error) {
	slots, ok := c.slots[product]
	if !ok {
		return nil, fmt.Errorf("%s: %w", product, ErrNotCraftable)
	}
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ComponentRequirement, 0, len(keys))
	for _, k := range keys {
		raw := slots[k]
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &MalformedRecipeError{Product: product, Slot: k, Value: string(raw), Reason: "slot value is not a string"}
		}
		if s == "" {
			continue
		}
		req, err := parseComponent(s)
		if err != nil {
			return nil, &MalformedRecipeError{Product: product, Slot: k, Value: strconv.Quote(s), Reason: err.Error()}
		}
		out = append(out, req)
	}
	return out, nil
}

// parseComponent splits on the last colon so symbols that contain one stay
// whole.
func parseComponent(s string) (ComponentRequirement, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return ComponentRequirement{}, errors.New("want SYMBOL:QUANTITY")
	}
	sym, qtyText := s[:i], s[i+1:]
	if sym == "" {
		return ComponentRequirement{}, errors.New("empty item symbol")
	}
	qty, err := strconv.Atoi(qtyText)
	if err != nil {
		return ComponentRequirement{}, fmt.Errorf("quantity %q is not an integer", qtyText)
	}
	if qty <= 0 {
		return ComponentRequirement{}, fmt.Errorf("quantity %d is not positive", qty)
	}
	return ComponentRequirement{Item: ItemSymbol(sym), Quantity: qty}, nil
}

// DistinctComponentSymbols lists each component once, in first-seen order.
func (c *Catalog) DistinctComponentSymbols(product ItemSymbol) ([]ItemSymbol, error) {
	comps, err := c.ComponentsOf(product)
	if err != nil {
		return nil, err
	}
	return distinct(comps), nil
}

func distinct(comps []ComponentRequirement) []ItemSymbol {
	seen := make(map[ItemSymbol]bool, len(comps))
	out := make([]ItemSymbol, 0, len(comps))
	for _, cr := range comps {
		if seen[cr.Item] {
			continue
		}
		seen[cr.Item] = true
		out = append(out, cr.Item)
	}
	return out
}

// Recipe returns the parsed recipe for product.
func (c *Catalog) Recipe(product ItemSymbol) (Recipe, error) {
	comps, err := c.ComponentsOf(product)
	if err != nil {
		return Recipe{}, err
	}
	return Recipe{Product: product, Components: comps}, nil
}

// Validate parses every recipe and joins all faults.
func (c *Catalog) Validate() error {
	var errs []error
	for _, p := range c.products {
		if _, err := c.ComponentsOf(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithoutMalformed returns a copy holding only recipes that parse, along with
// the joined faults of the ones it dropped.
func (c *Catalog) WithoutMalformed() (*Catalog, error) {
	out := &Catalog{slots: make(map[ItemSymbol]map[string]json.RawMessage, len(c.slots))}
	var errs []error
	for _, p := range c.products {
		if _, err := c.ComponentsOf(p); err != nil {
			errs = append(errs, err)
			continue
		}
		out.slots[p] = c.slots[p]
	}
	out.index()
	return out, errors.Join(errs...)
}
