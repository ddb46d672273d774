// Package facts holds the flat fact table consumed by every analytical
// component: one row per observed figure for one entity, statement, account,
// column and reporting month. The table is append-only input; nothing in this
// package mutates rows after construction.
package facts

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// financeCdWidth is the canonical zero-padded width of a finance code.
const financeCdWidth = 7

// Row is a single observed figure. BaseMonth is a YYYYMM string. Value is NaN
// when the source reported no figure; an absent value is excluded from sums,
// which is distinct from an explicit zero.
type Row struct {
	ListNo    string
	FinanceCd string
	BaseMonth string
	AccountCd string
	ColumnID  string
	Value     float64
}

// Table is an immutable slice of fact rows. Filter methods return fresh
// slices backed by new arrays; the receiver is never modified.
type Table []Row

// Months returns the sorted distinct month axis of the table, ordered by the
// numeric value of the YYYYMM string.
func (t Table) Months() []string {
	seen := make(map[string]struct{}, len(t))

	for _, r := range t {
		seen[r.BaseMonth] = struct{}{}
	}

	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}

	SortMonths(months)

	return months
}

// SortMonths orders YYYYMM strings ascending by numeric value, never
// lexicographically on differently padded strings.
func SortMonths(months []string) {
	sort.Slice(months, func(i, j int) bool {
		return MonthInt(months[i]) < MonthInt(months[j])
	})
}

// MonthInt parses a YYYYMM string into its numeric value. Malformed months
// sort first via -1.
func MonthInt(month string) int {
	n, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return -1
	}

	return n
}

// ByList returns the rows belonging to one statement list.
func (t Table) ByList(listNo string) Table {
	out := make(Table, 0, len(t))

	for _, r := range t {
		if r.ListNo == listNo {
			out = append(out, r)
		}
	}

	return out
}

// ByFirm returns the rows belonging to one reporting entity.
func (t Table) ByFirm(financeCd string) Table {
	out := make(Table, 0, len(t))

	for _, r := range t {
		if r.FinanceCd == financeCd {
			out = append(out, r)
		}
	}

	return out
}

// ByFirms returns the rows belonging to any of the given entities.
func (t Table) ByFirms(financeCds []string) Table {
	set := make(map[string]struct{}, len(financeCds))
	for _, cd := range financeCds {
		set[cd] = struct{}{}
	}

	out := make(Table, 0, len(t))

	for _, r := range t {
		if _, ok := set[r.FinanceCd]; ok {
			out = append(out, r)
		}
	}

	return out
}

// InRange returns the rows whose month falls in [start, end] inclusive.
// Start and end must already be resolved YYYYMM strings; see ResolveRange.
func (t Table) InRange(start, end string) Table {
	lo, hi := MonthInt(start), MonthInt(end)
	out := make(Table, 0, len(t))

	for _, r := range t {
		m := MonthInt(r.BaseMonth)
		if m >= lo && m <= hi {
			out = append(out, r)
		}
	}

	return out
}

// RangeStart and RangeEnd are sentinel bounds in section configuration that
// resolve to the first and last month of the active table.
const (
	RangeStart = "start"
	RangeEnd   = "end"
)

// ResolveRange resolves the start/end sentinels (or empty bounds) against the
// table's own month axis. A table with no months resolves to a degenerate
// all-inclusive range.
func (t Table) ResolveRange(minMonth, maxMonth string) (start, end string) {
	months := t.Months()

	globalStart, globalEnd := "190001", "299912"
	if len(months) > 0 {
		globalStart, globalEnd = months[0], months[len(months)-1]
	}

	start = minMonth
	if minMonth == RangeStart || minMonth == "" {
		start = globalStart
	}

	end = maxMonth
	if maxMonth == RangeEnd || maxMonth == "" {
		end = globalEnd
	}

	return start, end
}

// CanonFinanceCd normalizes an entity code: digits only, zero-padded to seven
// characters. Codes without digits canonicalize to the empty string.
func CanonFinanceCd(raw string) string {
	var digits strings.Builder

	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}

	s := digits.String()
	if s == "" {
		return ""
	}

	if len(s) >= financeCdWidth {
		return s
	}

	return strings.Repeat("0", financeCdWidth-len(s)) + s
}

// IsAbsent reports whether a fact value represents "no figure observed".
func IsAbsent(v float64) bool {
	return math.IsNaN(v)
}
