package summary

import (
	"encoding/json"
	"math"
)

// NumericStats tracks count, min, max and sum of the numbers seen for a field.
// Min and Max are zero until the first observation.
type NumericStats struct {
	Count uint64
	Min   float64
	Max   float64
	Sum   float64
}

// Observe adds x to the running statistics.
func (n *NumericStats) Observe(x float64) {
	n.Count++
	n.Sum += x

	if n.Count == 1 {
		n.Min = x
		n.Max = x
		return
	}
	if x < n.Min {
		n.Min = x
	}
	if x > n.Max {
		n.Max = x
	}
}

// Average returns Sum / Count. Callers must check Count > 0 first.
func (n *NumericStats) Average() float64 {
	return n.Sum / float64(n.Count)
}

// merge folds other, which follows n in input order, into n.
func (n *NumericStats) merge(other NumericStats) {
	if other.Count == 0 {
		return
	}
	if n.Count == 0 {
		*n = other
		return
	}
	n.Count += other.Count
	n.Sum += other.Sum
	if other.Min < n.Min {
		n.Min = other.Min
	}
	if other.Max > n.Max {
		n.Max = other.Max
	}
}

// toFloat converts a numeric JSON value to float64. Numbers too large for
// float64 come back as +Inf or -Inf.
func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case json.Number:
		// ParseFloat returns ±Inf alongside a range error, which is the value we want.
		f, err := x.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return math.NaN()
		}
		return f
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return math.NaN()
	}
}
