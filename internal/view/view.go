// Package view derives what the user sees from the stored alert collection.
// All functions are simple: []Alert in, []Alert out. No side effects.
package view

import "github.com/abelbrown/resqwatch/internal/alert"

// CriticalConfidence is the confidence an alert must exceed to be critical.
const CriticalConfidence = 90

// CriticalLimit caps the highlighted section.
const CriticalLimit = 3

// Filter returns the alerts visible under the given category filter, in
// collection order. Noise is always dropped, even when asked for explicitly.
func Filter(alerts []alert.Alert, category alert.Category) []alert.Alert {
	result := make([]alert.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.IsNoise() {
			continue
		}
		if category != alert.All && a.Category != category {
			continue
		}
		result = append(result, a)
	}
	return result
}

// Critical picks the highlighted subset from an already filtered view:
// high-confidence alerts in a severe category, first CriticalLimit by order.
func Critical(filtered []alert.Alert) []alert.Alert {
	result := make([]alert.Alert, 0, CriticalLimit)
	for _, a := range filtered {
		if len(result) == CriticalLimit {
			break
		}
		if a.IsNoise() || a.Confidence <= CriticalConfidence || !a.Category.Severe() {
			continue
		}
		result = append(result, a)
	}
	return result
}

// Counts tallies visible alerts per category. Noise is not counted.
func Counts(alerts []alert.Alert) map[alert.Category]int {
	counts := make(map[alert.Category]int)
	for _, a := range alerts {
		if a.IsNoise() {
			continue
		}
		counts[a.Category]++
		counts[alert.All]++
	}
	return counts
}
