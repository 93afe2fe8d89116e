package output

import (
	"math"
	"strconv"
)

// FormatValue formats a feature value with the fewest digits that represent it exactly. Integral values have no
// fractional part.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
