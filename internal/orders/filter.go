package orders

import (
	"errors"
	"fmt"
	"strings"
)

// Category narrows the history list after text search.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryRated    Category = "rated"
	CategoryReported Category = "reported"
)

// Categories lists the history categories in display order.
var Categories = []Category{CategoryAll, CategoryRated, CategoryReported}

// ErrUnknownCategory is returned by ParseCategory for unrecognized input.
var ErrUnknownCategory = errors.New("unknown history category")

// ParseCategory parses a category name. Empty input means CategoryAll.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryRated:
		return CategoryRated, nil
	case CategoryReported:
		return CategoryReported, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Next returns the category after c, wrapping around.
func (c Category) Next() Category {
	for i, cat := range Categories {
		if cat == c {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return CategoryAll
}

// Matches reports whether v belongs to category c.
func (c Category) Matches(v OrderView) bool {
	switch c {
	case CategoryRated:
		return v.Rating != nil
	case CategoryReported:
		return v.Report != nil
	}
	return true
}

// FilterOrders returns the items whose food name or receiver name contains
// query, ignoring case. The query is matched as typed, spaces included; only
// the empty query keeps everything. The input slice is never modified and
// order is preserved.
func FilterOrders(items []OrderView, query string) []OrderView {
	q := strings.ToLower(query)
	out := make([]OrderView, 0, len(items))
	for _, it := range items {
		if q == "" ||
			strings.Contains(strings.ToLower(it.FoodName), q) ||
			strings.Contains(strings.ToLower(it.Receiver.Name), q) {
			out = append(out, it)
		}
	}
	return out
}

// FilterHistory applies text search and then the category filter.
func FilterHistory(items []OrderView, query string, category Category) []OrderView {
	found := FilterOrders(items, query)
	if category == CategoryAll || category == "" {
		return found
	}
	out := make([]OrderView, 0, len(found))
	for _, it := range found {
		if category.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}
