package series_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fisight/fisight/pkg/series"
)

func TestZeroAndReindex(t *testing.T) {
	t.Parallel()

	months := []string{"202303", "202306"}

	z := series.Zero(months)
	assert.Equal(t, series.Series{"202303": 0, "202306": 0}, z)

	s := series.Series{"202306": 5, "202312": 9}
	got := s.Reindex(months)

	assert.Equal(t, series.Series{"202303": 0, "202306": 5}, got)
	// The receiver is untouched.
	assert.Equal(t, series.Series{"202306": 5, "202312": 9}, s)
}

func TestMonths_NumericOrder(t *testing.T) {
	t.Parallel()

	s := series.Series{"202312": 1, "99906": 2, "202303": 3}

	assert.Equal(t, []string{"99906", "202303", "202312"}, s.Months())
}

func TestArithmetic_UnionAxis(t *testing.T) {
	t.Parallel()

	a := series.Series{"202303": 2, "202306": 3}
	b := series.Series{"202306": 4, "202309": 5}

	sum := a.Add(b)
	assert.InDelta(t, 2, sum["202303"], 1e-9)
	assert.InDelta(t, 7, sum["202306"], 1e-9)
	assert.InDelta(t, 5, sum["202309"], 1e-9)

	diff := a.Sub(b)
	assert.InDelta(t, -1, diff["202306"], 1e-9)
	assert.InDelta(t, -5, diff["202309"], 1e-9)

	prod := a.Mul(b)
	assert.InDelta(t, 12, prod["202306"], 1e-9)
	assert.InDelta(t, 0, prod["202303"], 1e-9)
}

func TestDivZero(t *testing.T) {
	t.Parallel()

	n := series.Series{"202303": 10, "202306": 8, "202309": 1}
	d := series.Series{"202303": 4, "202306": 0}

	got := n.DivZero(d)

	assert.InDelta(t, 2.5, got["202303"], 1e-9)
	// Zero denominator yields 0, never an error or NaN.
	assert.InDelta(t, 0, got["202306"], 1e-9)
	// Absent denominator reads as 0 and also yields 0.
	assert.InDelta(t, 0, got["202309"], 1e-9)

	nan := series.Series{"202303": math.NaN()}
	assert.InDelta(t, 0, nan.DivZero(d)["202303"], 1e-9)
}

func TestSumAbs_SkipsNaN(t *testing.T) {
	t.Parallel()

	s := series.Series{"202303": -3, "202306": 4, "202309": math.NaN()}

	assert.InDelta(t, 7, s.SumAbs(), 1e-9)
}

func TestClone_Independent(t *testing.T) {
	t.Parallel()

	s := series.Series{"202303": 1}
	c := s.Clone()
	c["202303"] = 2

	assert.InDelta(t, 1, s["202303"], 1e-9)
}
