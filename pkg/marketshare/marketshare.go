// Package marketshare computes level-sum market totals, percentage shares,
// competition ranks and multi-horizon share deltas per entity and per named
// peer group. All figures are computed fresh per query over the immutable
// hierarchy index and the caller's fact slice; nothing is cached or retained.
//
// Undefined values (a share with a zero or absent denominator, a delta whose
// comparator month does not exist) are reported as NaN, never as zero, so a
// renderer can distinguish "no data" from a true zero.
package marketshare

import (
	"math"
	"sort"
	"strconv"

	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/hierarchy"
	"github.com/fisight/fisight/pkg/nodes"
	"github.com/fisight/fisight/pkg/resolve"
	"github.com/fisight/fisight/pkg/series"
)

const (
	percentFactor = 100

	// Calendar lookback offsets in YYYYMM arithmetic.
	oneYearOffset  = 100
	twoYearOffset  = 200
	roundingFactor = 100 // two decimal places.
)

// Params defines one market-share query: the hierarchy, the navigation
// context selecting the current level, the market's entity codes and any
// named peer groups.
type Params struct {
	Hier     hierarchy.Set
	ListNos  []string
	ColumnID string
	Path     nodes.Path
	Custom   []nodes.Node

	// MarketCds are the canonical entity codes that constitute the whole
	// market; the denominator is their combined level total.
	MarketCds []string

	// Groups maps a group name to its member entity codes.
	Groups map[string][]string
}

// Metric is one month's share figure with its deltas in percentage points.
// All values are rounded to two decimals; NaN marks an undefined share or an
// absent comparator.
type Metric struct {
	BaseMonth string
	SharePct  float64
	DPrevPP   float64
	D1yPP     float64
	D2yPP     float64
}

// FirmRow is one entity's metric row plus its per-month rank. Rank 0 means
// the entity had no defined share that month. RankChange is the previous
// rank minus the current one (positive = improved); an entity's first
// observed month defaults to 0.
type FirmRow struct {
	FinanceCd string
	Metric

	Rank       int
	RankChange int
}

// GroupMetrics carries the two derived views of a peer group's share: the
// sum of member shares and their mean, each run through the delta logic
// independently.
type GroupMetrics struct {
	Agg []Metric
	Avg []Metric
}

// Result is the outcome of one Compute call, owned by the caller.
type Result struct {
	PerFirm []FirmRow
	Groups  map[string]GroupMetrics
}

// LevelTotal resolves the current level for the navigation context and sums
// the absolute value of every current node's series per month. Magnitudes
// are used because statement items can be signed; share analysis is always
// over magnitude.
func LevelTotal(t facts.Table, p Params) (series.Series, error) {
	res, err := resolve.Resolve(t, p.Hier, p.ListNos, p.ColumnID, p.Path, p.Custom)
	if err != nil {
		return nil, err
	}

	total := series.Series{}

	for _, s := range res.Series {
		for m, v := range s {
			if !math.IsNaN(v) {
				total[m] += math.Abs(v)
			}
		}
	}

	return total, nil
}

// Share returns numerator/denominator*100 per month over the union of both
// axes. The result is NaN wherever the denominator is zero, absent or NaN,
// and wherever the numerator is absent; division never faults and is never
// silently zero.
func Share(numer, denom series.Series) series.Series {
	out := make(series.Series, len(denom))

	months := map[string]struct{}{}
	for m := range numer {
		months[m] = struct{}{}
	}

	for m := range denom {
		months[m] = struct{}{}
	}

	for m := range months {
		n, nOK := numer[m]
		d, dOK := denom[m]

		if !nOK || !dOK || d == 0 || math.IsNaN(d) || math.IsNaN(n) {
			out[m] = math.NaN()

			continue
		}

		out[m] = n / d * percentFactor
	}

	return out
}

// MetricsFromShare derives the delta table from a share series, one row per
// month present, sorted chronologically:
//
//   - DPrevPP compares against the immediately preceding series entry, not
//     the calendar-adjacent month;
//   - D1yPP and D2yPP compare against the exact months YYYYMM-100 and
//     YYYYMM-200, and are NaN when that month is not in the series.
func MetricsFromShare(share series.Series) []Metric {
	months := share.Months()
	out := make([]Metric, 0, len(months))

	for i, m := range months {
		cur := share[m]

		prev := math.NaN()
		if i > 0 {
			prev = share[months[i-1]]
		}

		out = append(out, Metric{
			BaseMonth: m,
			SharePct:  round2(cur),
			DPrevPP:   round2(delta(cur, prev)),
			D1yPP:     round2(delta(cur, lookback(share, m, oneYearOffset))),
			D2yPP:     round2(delta(cur, lookback(share, m, twoYearOffset))),
		})
	}

	return out
}

// lookback reads the share at the exact calendar month offset, NaN when the
// month is not present in the series.
func lookback(share series.Series, month string, offset int) float64 {
	n := facts.MonthInt(month)
	if n < 0 {
		return math.NaN()
	}

	v, ok := share[strconv.Itoa(n-offset)]
	if !ok {
		return math.NaN()
	}

	return v
}

func delta(cur, prev float64) float64 {
	if math.IsNaN(cur) || math.IsNaN(prev) {
		return math.NaN()
	}

	return cur - prev
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}

	return math.Round(v*roundingFactor) / roundingFactor
}

// Compute runs the full per-firm and per-group market-share analysis for the
// configured market at the current hierarchy level.
func Compute(t facts.Table, p Params) (Result, error) {
	market := t.ByFirms(p.MarketCds)

	marketTotal, err := LevelTotal(market, p)
	if err != nil {
		return Result{}, err
	}

	cds := append([]string(nil), p.MarketCds...)
	sort.Strings(cds)

	perFirm := make([]FirmRow, 0, len(cds))

	for _, cd := range cds {
		firmTotal, err := LevelTotal(market.ByFirm(cd), p)
		if err != nil {
			return Result{}, err
		}

		for _, m := range MetricsFromShare(Share(firmTotal, marketTotal)) {
			perFirm = append(perFirm, FirmRow{FinanceCd: cd, Metric: m})
		}
	}

	rankRows(perFirm)

	return Result{
		PerFirm: perFirm,
		Groups:  groupMetrics(perFirm, p.Groups),
	}, nil
}

// rankRows assigns per-month competition ranks on SharePct descending: tied
// entities receive the same best-available rank and the next distinct value
// jumps past the tied run. It then derives RankChange along each entity's
// chronological sequence. Rows must already be ordered by entity then month,
// which Compute guarantees.
func rankRows(rows []FirmRow) {
	sharesByMonth := map[string][]float64{}

	for _, r := range rows {
		if !math.IsNaN(r.SharePct) {
			sharesByMonth[r.BaseMonth] = append(sharesByMonth[r.BaseMonth], r.SharePct)
		}
	}

	for i := range rows {
		if math.IsNaN(rows[i].SharePct) {
			rows[i].Rank = 0

			continue
		}

		rank := 1

		for _, other := range sharesByMonth[rows[i].BaseMonth] {
			if other > rows[i].SharePct {
				rank++
			}
		}

		rows[i].Rank = rank
	}

	prevRank := map[string]int{}

	for i := range rows {
		cd := rows[i].FinanceCd

		prev, seen := prevRank[cd]
		if seen && prev > 0 && rows[i].Rank > 0 {
			rows[i].RankChange = prev - rows[i].Rank
		}

		prevRank[cd] = rows[i].Rank
	}
}

// groupMetrics builds the aggregate and average share series per named group
// from the per-firm rows restricted to its members. Groups with no member
// rows are skipped entirely.
func groupMetrics(perFirm []FirmRow, groups map[string][]string) map[string]GroupMetrics {
	out := make(map[string]GroupMetrics, len(groups))

	for name, members := range groups {
		if len(members) == 0 {
			continue
		}

		memberSet := make(map[string]struct{}, len(members))
		for _, cd := range members {
			memberSet[cd] = struct{}{}
		}

		sums := map[string]float64{}
		counts := map[string]int{}
		seenMonths := map[string]struct{}{}
		any := false

		for _, r := range perFirm {
			if _, ok := memberSet[r.FinanceCd]; !ok {
				continue
			}

			any = true
			seenMonths[r.BaseMonth] = struct{}{}

			if !math.IsNaN(r.SharePct) {
				sums[r.BaseMonth] += r.SharePct
				counts[r.BaseMonth]++
			}
		}

		if !any {
			continue
		}

		agg := make(series.Series, len(seenMonths))
		avg := make(series.Series, len(seenMonths))

		for m := range seenMonths {
			// A month where every member share is undefined sums to 0
			// but has no defined mean.
			agg[m] = sums[m]

			if counts[m] > 0 {
				avg[m] = sums[m] / float64(counts[m])
			} else {
				avg[m] = math.NaN()
			}
		}

		out[name] = GroupMetrics{
			Agg: MetricsFromShare(agg),
			Avg: MetricsFromShare(avg),
		}
	}

	return out
}
