// Package recipes loads the static crafting catalog: a JSON object keyed by
// item symbol whose entries may carry a "recipe" object of slot -> "SYMBOL:QTY".
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"bazaar-flipper/internal/logger"
)

// Item is one catalog entry. Recipe is nil when the key is missing or null;
// slot values are kept raw so the engine can report non-string slots.
type Item struct {
	Name   string                     `json:"name,omitempty"`
	Recipe map[string]json.RawMessage `json:"recipe,omitempty"`
}

// HasRecipe reports whether the item is craftable.
func (it Item) HasRecipe() bool { return it.Recipe != nil }

// Items maps item symbol to its catalog entry.
type Items map[string]Item

// Craftable counts items carrying a recipe.
func (items Items) Craftable() int {
	n := 0
	for _, it := range items {
		if it.HasRecipe() {
			n++
		}
	}
	return n
}

// Load reads the catalog from a file path or an http(s) URL. client may be
// nil for file sources or when http.DefaultClient is acceptable.
func Load(ctx context.Context, source string, client *http.Client) (Items, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if isURL(source) {
		logger.Info("RECIPES", "Downloading "+source)
		rc, err = open(ctx, source, client)
	} else {
		logger.Info("RECIPES", "Reading "+source)
		rc, err = os.Open(source)
	}
	if err != nil {
		return nil, fmt.Errorf("open recipes %s: %w", source, err)
	}
	defer rc.Close()

	items, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("recipes %s: %w", source, err)
	}

	logger.Section("Recipe Catalog")
	logger.Stats("Items", len(items))
	logger.Stats("Craftable", items.Craftable())
	return items, nil
}

// Decode parses a catalog document.
func Decode(r io.Reader) (Items, error) {
	var items Items
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if items == nil {
		items = Items{}
	}
	return items, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func open(ctx context.Context, url string, client *http.Client) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "bazaar-flipper/1.0 (github.com)")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}
