// Package bucketing collapses low-share items of a breakdown into a single
// "other" bucket per group while exactly preserving each group's total. It
// keeps displayed breakdowns readable without distorting the numbers.
package bucketing

import (
	"math"
	"sort"
)

// DefaultThreshold buckets items below one percent of their group total.
const DefaultThreshold = 0.01

// DefaultLabel is the display label of the bucket row.
const DefaultLabel = "기타 - 1% 미만"

// Row is one item of a breakdown. Group is the caller-composed key of the
// parent group (for example a base month, or "month|parent"); Item is the
// identifier that may be replaced by the bucket label.
type Row struct {
	Group string
	Item  string
	Value float64
}

// Options controls the collapse.
type Options struct {
	// Totals optionally supplies each group's denominator. When nil the
	// totals are computed as the sum of the group's item values. A group
	// missing from a supplied map has total 0, which forces all of its
	// items into the bucket.
	Totals map[string]float64

	// Threshold is the share below which an item is bucketed.
	Threshold float64

	// Label replaces the item identifier of bucketed rows. Empty selects
	// DefaultLabel.
	Label string

	// StrictLess buckets items with share < Threshold; when false the
	// comparison is share <= Threshold.
	StrictLess bool
}

// Bucket relabels every item whose share of its group total falls below the
// threshold and re-aggregates, so multiple bucketed items of one group
// collapse into a single row whose value is their exact sum. The output is
// sorted by group then item for determinism; for every group, the sum of
// output values equals the sum of input values.
//
// A group whose total is zero or NaN gives every item share 0, so the whole
// group collapses into the bucket.
func Bucket(rows []Row, opts Options) []Row {
	if len(rows) == 0 {
		return nil
	}

	label := opts.Label
	if label == "" {
		label = DefaultLabel
	}

	totals := opts.Totals
	if totals == nil {
		totals = make(map[string]float64, len(rows))
		for _, r := range rows {
			totals[r.Group] += coerce(r.Value)
		}
	}

	type key struct{ group, item string }

	agg := make(map[key]float64, len(rows))

	for _, r := range rows {
		value := coerce(r.Value)
		item := r.Item

		if bucketed(value, totals[r.Group], opts.Threshold, opts.StrictLess) {
			item = label
		}

		agg[key{r.Group, item}] += value
	}

	out := make([]Row, 0, len(agg))
	for k, v := range agg {
		out = append(out, Row{Group: k.group, Item: k.item, Value: v})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}

		return out[i].Item < out[j].Item
	})

	return out
}

// bucketed decides whether a value's share of the group total is small
// enough to collapse. A zero, NaN or absent total makes the share 0, not
// undefined, so degenerate groups bucket entirely.
func bucketed(value, total, threshold float64, strictLess bool) bool {
	share := 0.0
	if total != 0 && !math.IsNaN(total) {
		share = value / total
	}

	if strictLess {
		return share < threshold
	}

	return share <= threshold
}

// coerce treats a non-finite value as 0 so it cannot poison group totals.
func coerce(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return v
}
