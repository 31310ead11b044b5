package domain

import (
	"fmt"
	"sort"
)

// PropertyBag is the solver's free-form key/value property set for setups, sweeps and boundaries.
// Keys follow the solver's own naming (e.g. "MaximumPasses").
type PropertyBag map[string]any

// Select returns a new bag holding only the given keys that are present in b.
// Absent keys are skipped silently.
func (b PropertyBag) Select(keys []string) PropertyBag {
	out := make(PropertyBag, len(keys))
	for _, k := range keys {
		if v, ok := b[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of the bag.
func (b PropertyBag) Clone() PropertyBag {
	out := make(PropertyBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Keys returns the keys of the bag in sorted order.
func (b PropertyBag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Diff returns the keys of want whose value differs from (or is missing in) b.
// Values are compared by their printed form, since the solver returns most values as strings.
func (b PropertyBag) Diff(want PropertyBag) []string {
	var changed []string
	for _, k := range want.Keys() {
		have, ok := b[k]
		if !ok || fmt.Sprint(have) != fmt.Sprint(want[k]) {
			changed = append(changed, k)
		}
	}
	return changed
}
