package summary

// BoolStats counts true and false values. Count == NumTrue + NumFalse.
type BoolStats struct {
	Count    uint64
	NumTrue  uint64
	NumFalse uint64
}

// Observe tallies b.
func (b *BoolStats) Observe(v bool) {
	b.Count++
	if v {
		b.NumTrue++
	} else {
		b.NumFalse++
	}
}

func (b *BoolStats) merge(other BoolStats) {
	b.Count += other.Count
	b.NumTrue += other.NumTrue
	b.NumFalse += other.NumFalse
}
