// Package render turns analysis results into terminal tables and HTML
// chart pages.
package render

import "math"

// Korean monetary unit factors.
const (
	factorJo      = 1e12 // 조
	factorSipeok  = 1e9  // 십억
	factorBaekman = 1e6  // 백만
	factorCheon   = 1e3  // 천
)

// Rescaler divides raw monetary values into a readable unit.
type Rescaler struct {
	Unit   string
	Factor float64
}

// SelectRescaler picks the largest unit that keeps the given magnitude
// above one. Values below a thousand stay unscaled.
func SelectRescaler(maxAbs float64) Rescaler {
	switch {
	case maxAbs >= factorJo:
		return Rescaler{Unit: "조", Factor: factorJo}
	case maxAbs >= factorSipeok:
		return Rescaler{Unit: "십억", Factor: factorSipeok}
	case maxAbs >= factorBaekman:
		return Rescaler{Unit: "백만", Factor: factorBaekman}
	case maxAbs >= factorCheon:
		return Rescaler{Unit: "천", Factor: factorCheon}
	default:
		return Rescaler{Unit: "", Factor: 1}
	}
}

// Apply rescales one value. NaN passes through untouched.
func (r Rescaler) Apply(value float64) float64 {
	if math.IsNaN(value) {
		return value
	}

	return value / r.Factor
}

// MaxAbs returns the largest absolute finite value across the given series
// values. NaN entries are skipped.
func MaxAbs(values ...float64) float64 {
	var maxAbs float64

	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}

		if abs := math.Abs(v); abs > maxAbs {
			maxAbs = abs
		}
	}

	return maxAbs
}
