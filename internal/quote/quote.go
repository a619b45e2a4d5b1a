// Package quote implements the price query pipeline: split the requested
// material list, resolve each name against the catalog, and aggregate the
// resolved prices under a named rule.
package quote

import (
	"context"
	"errors"
	"strings"

	"precos-materiais-api/internal/catalog"
	"precos-materiais-api/internal/metrics"
	"precos-materiais-api/internal/normalize"
	"precos-materiais-api/internal/pricing"
)

// ErrNoMaterials means the request carried no usable material name.
var ErrNoMaterials = errors.New("Nenhum material informado.")

// UnresolvedError reports requested materials missing from the catalog.
// The query fails as a unit: no partial pricing is returned. Available
// carries the full sorted catalog name list as a remediation aid.
type UnresolvedError struct {
	NotFound  []string
	Available []string
}

func (e *UnresolvedError) Error() string { return "Materiais desconhecidos." }

// PricedItem echoes one resolved material and the base price used.
type PricedItem struct {
	Name  string `json:"material"`
	Price int64  `json:"preco"`
}

// Result is the outcome of a successful price query.
type Result struct {
	Materials []string
	Items     []PricedItem
	Rule      string
	Price     int64
}

// Service resolves material lists against the catalog store.
type Service struct {
	store *catalog.Store
}

// NewService returns a Service bound to the store.
func NewService(store *catalog.Store) *Service {
	return &Service{store: store}
}

// Price parses the comma-separated material list and prices it under the
// named rule (Default when empty). Input and rule validation happen
// before any catalog access; duplicates in the request are kept and
// weigh on the average once per occurrence.
func (s *Service) Price(ctx context.Context, rawNames, ruleName string) (Result, error) {
	names := splitNames(rawNames)
	if len(names) == 0 {
		metrics.Quotes.WithLabelValues("invalid").Inc()
		return Result{}, ErrNoMaterials
	}
	if ruleName == "" {
		ruleName = pricing.Default
	}
	if !pricing.Known(ruleName) {
		metrics.Quotes.WithLabelValues("invalid").Inc()
		return Result{}, &pricing.UnknownRuleError{Rule: ruleName}
	}

	if err := s.store.EnsureFresh(ctx); err != nil {
		metrics.Quotes.WithLabelValues("catalog_error").Inc()
		return Result{}, err
	}
	cat, ok := s.store.Current()
	if !ok {
		metrics.Quotes.WithLabelValues("catalog_error").Inc()
		return Result{}, catalog.ErrEmptyCatalog
	}

	var notFound []string
	items := make([]PricedItem, 0, len(names))
	prices := make([]int64, 0, len(names))
	for _, raw := range names {
		entry, found := cat.Lookup(normalize.Key(raw))
		if !found {
			notFound = append(notFound, raw)
			continue
		}
		items = append(items, PricedItem{Name: entry.Name, Price: entry.Price})
		prices = append(prices, entry.Price)
	}
	if len(notFound) > 0 {
		metrics.Quotes.WithLabelValues("unresolved").Inc()
		return Result{}, &UnresolvedError{NotFound: notFound, Available: cat.Names()}
	}

	final, err := pricing.Apply(ruleName, prices)
	if err != nil {
		metrics.Quotes.WithLabelValues("invalid").Inc()
		return Result{}, err
	}

	materials := make([]string, len(items))
	for i, item := range items {
		materials[i] = item.Name
	}
	metrics.Quotes.WithLabelValues("ok").Inc()
	return Result{Materials: materials, Items: items, Rule: ruleName, Price: final}, nil
}

// splitNames splits on commas, trims each token, and drops empties while
// preserving order and duplicates.
func splitNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			names = append(names, token)
		}
	}
	return names
}
