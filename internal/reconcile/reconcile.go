// Package reconcile merges successive feed snapshots into the stored alert
// collection. All functions are pure: slices in, new slice out. Inputs are
// never modified.
package reconcile

import (
	"sort"

	"github.com/abelbrown/resqwatch/internal/alert"
)

// MaxAlerts is the default capacity of the stored collection.
const MaxAlerts = 250

// Merge folds incoming into existing.
//
// An incoming alert whose ID is already stored is ignored: the first-seen
// copy wins even if the source later reclassifies it. The result is sorted
// by timestamp descending (stable, so equal timestamps keep insertion order)
// and truncated to limit entries. A limit <= 0 means MaxAlerts.
func Merge(existing, incoming []alert.Alert, limit int) []alert.Alert {
	if limit <= 0 {
		limit = MaxAlerts
	}

	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]alert.Alert, 0, len(existing)+len(incoming))

	for _, a := range existing {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		merged = append(merged, a)
	}

	for _, a := range incoming {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		merged = append(merged, a)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Replace takes a search result as authoritative. Duplicate IDs are dropped
// (first occurrence wins) but the service's ranking order is kept and no cap
// is applied.
func Replace(incoming []alert.Alert) []alert.Alert {
	seen := make(map[string]bool, len(incoming))
	result := make([]alert.Alert, 0, len(incoming))

	for _, a := range incoming {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		result = append(result, a)
	}
	return result
}
