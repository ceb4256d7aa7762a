package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecipe marks a recipe slot that is not "SYMBOL:QTY".
	ErrMalformedRecipe = errors.New("malformed recipe")
	// ErrUnknownComponent marks a component with no quote at costing time.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrUnpricedComponent marks a component whose book side for the chosen
	// basis is empty.
	ErrUnpricedComponent = errors.New("unpriced component")
	// ErrNotCraftable is returned for products absent from the catalog.
	ErrNotCraftable = errors.New("product has no recipe")
)

// MalformedRecipeError describes a bad recipe slot.
type MalformedRecipeError struct {
	Product ItemSymbol
	Slot    string
	Value   string
	Reason  string
}

func (e *MalformedRecipeError) Error() string {
	return fmt.Sprintf("malformed recipe for %s slot %s (%s): %s", e.Product, e.Slot, e.Value, e.Reason)
}

func (e *MalformedRecipeError) Is(target error) bool { return target == ErrMalformedRecipe }

// UnknownComponentError means the catalog and snapshot disagree: availability
// passed yet a component quote is missing.
type UnknownComponentError struct {
	Product ItemSymbol
	Item    ItemSymbol
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("recipe for %s: no quote for component %s", e.Product, e.Item)
}

func (e *UnknownComponentError) Is(target error) bool { return target == ErrUnknownComponent }

// UnpricedComponentError means a component cannot be bought at the chosen
// basis right now. The ranker skips such products.
type UnpricedComponentError struct {
	Product ItemSymbol
	Item    ItemSymbol
	Basis   CostBasis
}

func (e *UnpricedComponentError) Error() string {
	return fmt.Sprintf("recipe for %s: component %s has no %s price", e.Product, e.Item, e.Basis)
}

func (e *UnpricedComponentError) Is(target error) bool { return target == ErrUnpricedComponent }
