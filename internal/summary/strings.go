package summary

// StringStats tracks string lengths for a field, along with the first string
// seen at the current shortest and longest length. Lengths are in bytes.
type StringStats struct {
	Count     uint64
	MinLength uint64
	MinWord   string
	MaxLength uint64
	MaxWord   string
	SumLength uint64
}

// Observe adds s to the running statistics. The first string becomes both
// the shortest and the longest; later strings replace them only when strictly
// shorter or longer, so ties keep the word seen first.
func (s *StringStats) Observe(str string) {
	s.Count++
	length := uint64(len(str))
	s.SumLength += length

	if s.Count == 1 {
		s.MinLength, s.MinWord = length, str
		s.MaxLength, s.MaxWord = length, str
		return
	}
	if length < s.MinLength {
		s.MinLength, s.MinWord = length, str
	}
	if length > s.MaxLength {
		s.MaxLength, s.MaxWord = length, str
	}
}

// Average returns the mean length. Callers must check Count > 0 first.
func (s *StringStats) Average() float64 {
	return float64(s.SumLength) / float64(s.Count)
}

func (s *StringStats) merge(other StringStats) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = other
		return
	}
	s.Count += other.Count
	s.SumLength += other.SumLength
	if other.MinLength < s.MinLength {
		s.MinLength, s.MinWord = other.MinLength, other.MinWord
	}
	if other.MaxLength > s.MaxLength {
		s.MaxLength, s.MaxWord = other.MaxLength, other.MaxWord
	}
}
