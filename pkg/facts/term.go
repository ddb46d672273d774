package facts

import (
	"fmt"
	"strconv"
)

// Reporting terms select how often a statement is filed. The term decides
// which month endings are essential for a complete series.
const (
	TermQuarterly  = "Q"
	TermHalfYearly = "H"
	TermYearly     = "Y"
)

// monthsPerYear is the YYYYMM month wrap boundary.
const monthsPerYear = 12

// EssentialEndings returns the MM endings that must be present for the given
// term. Unknown terms have no essential endings.
func EssentialEndings(term string) []string {
	switch term {
	case TermQuarterly:
		return []string{"03", "06", "09", "12"}
	case TermHalfYearly:
		return []string{"06", "12"}
	case TermYearly:
		return []string{"12"}
	default:
		return nil
	}
}

// ExpectedMonths generates the YYYYMM strings a complete series should carry
// between start and end inclusive, at the given term's frequency.
func ExpectedMonths(start, end, term string) []string {
	endings := EssentialEndings(term)
	if len(endings) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(endings))
	for _, e := range endings {
		wanted[e] = struct{}{}
	}

	lo, hi := MonthInt(start), MonthInt(end)
	if lo < 0 || hi < 0 || lo > hi {
		return nil
	}

	var out []string

	year, month := lo/100, lo%100

	for {
		cur := year*100 + month
		if cur > hi {
			break
		}

		mm := fmt.Sprintf("%02d", month)
		if _, ok := wanted[mm]; ok {
			out = append(out, strconv.Itoa(cur))
		}

		month++
		if month > monthsPerYear {
			month = 1
			year++
		}
	}

	return out
}

// KeepEssentialMonths filters the table to the rows whose month ending is
// essential for the given term. An unknown term keeps every row.
func (t Table) KeepEssentialMonths(term string) Table {
	endings := EssentialEndings(term)
	if len(endings) == 0 {
		return t
	}

	wanted := make(map[string]struct{}, len(endings))
	for _, e := range endings {
		wanted[e] = struct{}{}
	}

	out := make(Table, 0, len(t))

	for _, r := range t {
		if len(r.BaseMonth) < 2 {
			continue
		}

		if _, ok := wanted[r.BaseMonth[len(r.BaseMonth)-2:]]; ok {
			out = append(out, r)
		}
	}

	return out
}
