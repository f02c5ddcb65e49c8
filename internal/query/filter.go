// Package query evaluates expense filters.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"moneyman/internal/core"
)

// Filter selects expense records. Zero-valued fields are not applied.
type Filter struct {
	Name     string // whitespace separated words, each a case-insensitive substring
	Year     int
	Month    int
	Day      int
	Category string
	Source   string
}

// Matches reports whether e passes every set criterion. Records without a
// name never match.
func (f Filter) Matches(e core.Expense) bool {
	if e.Name == "" {
		return false
	}
	if f.Year != 0 && e.Year != f.Year {
		return false
	}
	if f.Month != 0 && e.Month != f.Month {
		return false
	}
	if f.Day != 0 && e.Date != f.Day {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	return containsAllWords(e.Name, f.Name)
}

func containsAllWords(name, words string) bool {
	fields := strings.Fields(words)
	if len(fields) == 0 {
		return true
	}
	// cases.Caser is stateful, so each call gets its own
	fold := cases.Fold()
	haystack := fold.String(name)
	for _, w := range fields {
		if !strings.Contains(haystack, fold.String(w)) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Apply returns the records matching f, preserving order.
func (f Filter) Apply(items []core.Expense) []core.Expense {
	out := make([]core.Expense, 0, len(items))
	for _, e := range items {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// FromParams builds a filter from request parameters keyed by "name",
// "year", "month", "day", "category" and "source". Blank values are ignored.
func FromParams(params map[string]string) (Filter, error) {
	var f Filter
	f.Name = strings.TrimSpace(params["name"])
	f.Category = params["category"]
	f.Source = params["source"]

	ints := []struct {
		key string
		dst *int
	}{
		{"year", &f.Year},
		{"month", &f.Month},
		{"day", &f.Day},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(params[p.key])
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %s %q", core.ErrInvalidFilter, p.key, raw)
		}
		*p.dst = n
	}
	return f, nil
}
