package domain

import (
	"fmt"
	"strings"
)

// Tab enumerates the storefront screens. Exactly one tab is active at a time.
type Tab string

const (
	TabHome       Tab = "home"
	TabCategories Tab = "categories"
	TabSearch     Tab = "search"
	TabCart       Tab = "cart"
	TabOrders     Tab = "orders"
	TabProducts   Tab = "products"
)

var knownTabs = map[Tab]struct{}{
	TabHome:       {},
	TabCategories: {},
	TabSearch:     {},
	TabCart:       {},
	TabOrders:     {},
	TabProducts:   {},
}

// Valid reports whether the tab is one of the fixed enumerated screens.
func (t Tab) Valid() bool {
	_, ok := knownTabs[t]
	return ok
}

// ParseTab normalises and validates a tab name supplied by an adapter.
func ParseTab(value string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(value)))
	if !tab.Valid() {
		return "", fmt.Errorf("unknown tab %q", value)
	}
	return tab, nil
}
