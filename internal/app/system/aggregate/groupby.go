// internal/app/system/aggregate/groupby.go
package aggregate

// Grouped is an ordered partition of a collection: Keys preserves first-seen
// key order so grouped views render deterministically, and Items maps each
// key to its records in input order.
type Grouped[K comparable, T any] struct {
	Keys  []K
	Items map[K][]T
}

// GroupBy partitions items by the extraction key, preserving first-seen key
// order and the relative order of records within each group.
func GroupBy[T any, K comparable](items []T, key func(T) K) Grouped[K, T] {
	g := Grouped[K, T]{Items: make(map[K][]T)}
	for _, it := range items {
		k := key(it)
		if _, ok := g.Items[k]; !ok {
			g.Keys = append(g.Keys, k)
		}
		g.Items[k] = append(g.Items[k], it)
	}
	return g
}

// Group returns the records for a key, nil if the key never occurred.
func (g Grouped[K, T]) Group(k K) []T {
	return g.Items[k]
}

// Len returns the number of distinct keys.
func (g Grouped[K, T]) Len() int {
	return len(g.Keys)
}

// DistinctCount counts distinct keys among items without materializing groups.
func DistinctCount[T any, K comparable](items []T, key func(T) K) int {
	seen := make(map[K]struct{}, len(items))
	for _, it := range items {
		seen[key(it)] = struct{}{}
	}
	return len(seen)
}

// SumBy sums the extracted value over all items.
func SumBy[T any](items []T, val func(T) float64) float64 {
	var total float64
	for _, it := range items {
		total += val(it)
	}
	return total
}

// CountBy counts the items satisfying the predicate.
func CountBy[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}
