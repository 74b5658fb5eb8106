package summary

// ArrayStats tracks the element counts of arrays seen for a field. The
// elements themselves are not inspected.
type ArrayStats struct {
	Count uint64
	Min   uint64
	Max   uint64
	Sum   uint64
}

// Observe adds an array of the given length.
func (a *ArrayStats) Observe(length int) {
	n := uint64(length)
	a.Count++
	a.Sum += n

	if a.Count == 1 {
		a.Min = n
		a.Max = n
		return
	}
	if n < a.Min {
		a.Min = n
	}
	if n > a.Max {
		a.Max = n
	}
}

// Average returns the mean array length. Callers must check Count > 0 first.
func (a *ArrayStats) Average() float64 {
	return float64(a.Sum) / float64(a.Count)
}

func (a *ArrayStats) merge(other ArrayStats) {
	if other.Count == 0 {
		return
	}
	if a.Count == 0 {
		*a = other
		return
	}
	a.Count += other.Count
	a.Sum += other.Sum
	if other.Min < a.Min {
		a.Min = other.Min
	}
	if other.Max > a.Max {
		a.Max = other.Max
	}
}
