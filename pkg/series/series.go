// Package series provides the month-indexed numeric series value type shared
// by the aggregation, market-share and overlay engines. A series maps YYYYMM
// strings to float64 values; NaN marks an undefined value (for example a
// share with a zero denominator), which is distinct from an explicit zero.
package series

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Series maps base months (YYYYMM strings) to values. Operations return
// fresh series and never mutate their operands.
type Series map[string]float64

// Zero returns a series carrying 0.0 at every given month.
func Zero(months []string) Series {
	s := make(Series, len(months))
	for _, m := range months {
		s[m] = 0
	}

	return s
}

// Months returns the series' months sorted ascending by numeric value.
func (s Series) Months() []string {
	months := make([]string, 0, len(s))
	for m := range s {
		months = append(months, m)
	}

	sort.Slice(months, func(i, j int) bool {
		return monthInt(months[i]) < monthInt(months[j])
	})

	return months
}

// Reindex returns a new series aligned to the given month axis: months with
// no entry are filled with 0.0 and entries outside the axis are dropped.
func (s Series) Reindex(months []string) Series {
	out := make(Series, len(months))

	for _, m := range months {
		if v, ok := s[m]; ok {
			out[m] = v
		} else {
			out[m] = 0
		}
	}

	return out
}

// At returns the value at a month and whether it is present.
func (s Series) At(month string) (float64, bool) {
	v, ok := s[month]

	return v, ok
}

// Clone returns an independent copy.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for m, v := range s {
		out[m] = v
	}

	return out
}

// Add returns the month-wise sum over the union of both axes; a month absent
// on one side contributes 0.
func (s Series) Add(other Series) Series {
	return combine(s, other, func(a, b float64) float64 { return a + b })
}

// Sub returns the month-wise difference over the union of both axes.
func (s Series) Sub(other Series) Series {
	return combine(s, other, func(a, b float64) float64 { return a - b })
}

// Mul returns the month-wise product over the union of both axes.
func (s Series) Mul(other Series) Series {
	return combine(s, other, func(a, b float64) float64 { return a * b })
}

// DivZero returns the month-wise quotient with the convention used by
// overlay expressions: a zero, absent or NaN denominator yields 0 for that
// month rather than an error or NaN.
func (s Series) DivZero(other Series) Series {
	return combine(s, other, func(a, b float64) float64 {
		if b == 0 || math.IsNaN(b) || math.IsNaN(a) {
			return 0
		}

		return a / b
	})
}

func combine(a, b Series, op func(x, y float64) float64) Series {
	out := make(Series, len(a))

	for m, v := range a {
		w := b[m] // missing months read as 0.
		out[m] = op(v, w)
	}

	for m, w := range b {
		if _, ok := a[m]; !ok {
			out[m] = op(0, w)
		}
	}

	return out
}

// SumAbs returns the sum of absolute values over all months, skipping NaN.
func (s Series) SumAbs() float64 {
	var total float64

	for _, v := range s {
		if !math.IsNaN(v) {
			total += math.Abs(v)
		}
	}

	return total
}

func monthInt(month string) int {
	n, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return -1
	}

	return n
}
