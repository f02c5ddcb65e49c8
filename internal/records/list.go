// Package records holds immutable result lists with stable sorting,
// sort-then-group partitioning and amount aggregation.
package records

import (
	"cmp"
	"slices"
)

// List is an immutable ordered sequence.
type List[T any] struct {
	items []T
}

// NewList copies items into a new list.
func NewList[T any](items []T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Items returns a copy of the wrapped sequence.
func (l *List[T]) Items() []T {
	if l == nil {
		return nil
	}
	return slices.Clone(l.items)
}

// Group is one contiguous run of equal keys.
type Group[K any, T any] struct {
	Key  K
	List *List[T]
}

// SortedBy returns the items stable-sorted ascending by key. The list is not
// modified.
func SortedBy[T any, K cmp.Ordered](l *List[T], key func(T) K) []T {
	return sortStable(l.Items(), func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

// GroupBy sorts by key and splits the result into runs of equal keys, so
// groups come out in key order and each key appears exactly once.
func GroupBy[T any, K cmp.Ordered](l *List[T], key func(T) K) []Group[K, T] {
	sorted := SortedBy(l, key)
	return partition(sorted, func(a, b T) bool { return key(a) == key(b) }, key)
}

func sortStable[T any](items []T, compare func(a, b T) int) []T {
	slices.SortStableFunc(items, compare)
	return items
}

func partition[T any, K any](sorted []T, same func(a, b T) bool, key func(T) K) []Group[K, T] {
	var groups []Group[K, T]
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && same(sorted[start], sorted[i]) {
			continue
		}
		groups = append(groups, Group[K, T]{Key: key(sorted[start]), List: &List[T]{items: sorted[start:i:i]}})
		start = i
	}
	return groups
}
