package formatter

import "github.com/mcncl/jsonsum/internal/summary"

// Report is the document written by the JSON and YAML formats. A kind
// section is present only when that kind was observed.
type Report struct {
	TotalRecords uint64                 `json:"total_records" yaml:"total_records"`
	Fields       map[string]FieldReport `json:"fields" yaml:"fields"`
}

// FieldReport describes one field.
type FieldReport struct {
	Count       uint64         `json:"count" yaml:"count"`
	NullCount   uint64         `json:"null_count,omitempty" yaml:"null_count,omitempty"`
	ObjectCount uint64         `json:"object_count,omitempty" yaml:"object_count,omitempty"`
	Number      *NumberReport  `json:"number,omitempty" yaml:"number,omitempty"`
	String      *StringReport  `json:"string,omitempty" yaml:"string,omitempty"`
	Boolean     *BooleanReport `json:"boolean,omitempty" yaml:"boolean,omitempty"`
	Array       *ArrayReport   `json:"array,omitempty" yaml:"array,omitempty"`
}

type NumberReport struct {
	Count   uint64 `json:"count" yaml:"count"`
	Min     Float  `json:"min" yaml:"min"`
	Max     Float  `json:"max" yaml:"max"`
	Sum     Float  `json:"sum" yaml:"sum"`
	Average Float  `json:"avg" yaml:"avg"`
}

type StringReport struct {
	Count         uint64  `json:"count" yaml:"count"`
	Shortest      string  `json:"shortest" yaml:"shortest"`
	Longest       string  `json:"longest" yaml:"longest"`
	MinLength     uint64  `json:"min_length" yaml:"min_length"`
	MaxLength     uint64  `json:"max_length" yaml:"max_length"`
	AverageLength float64 `json:"avg_length" yaml:"avg_length"`
}

type BooleanReport struct {
	Count    uint64 `json:"count" yaml:"count"`
	NumTrue  uint64 `json:"true" yaml:"true"`
	NumFalse uint64 `json:"false" yaml:"false"`
}

type ArrayReport struct {
	Count         uint64  `json:"count" yaml:"count"`
	Shortest      uint64  `json:"shortest" yaml:"shortest"`
	Longest       uint64  `json:"longest" yaml:"longest"`
	AverageLength float64 `json:"avg_length" yaml:"avg_length"`
}

// BuildReport copies an Aggregator's state into a Report.
func BuildReport(agg *summary.Aggregator) Report {
	report := Report{
		TotalRecords: agg.TotalRecords(),
		Fields:       make(map[string]FieldReport, len(agg.Fields())),
	}

	for name, s := range agg.Fields() {
		fr := FieldReport{
			Count:       s.Count,
			NullCount:   s.NullCount,
			ObjectCount: s.ObjectCount,
		}
		if n := s.Numeric; n.Count > 0 {
			fr.Number = &NumberReport{
				Count:   n.Count,
				Min:     Float(n.Min),
				Max:     Float(n.Max),
				Sum:     Float(n.Sum),
				Average: Float(n.Average()),
			}
		}
		if str := s.String; str.Count > 0 {
			fr.String = &StringReport{
				Count:         str.Count,
				Shortest:      str.MinWord,
				Longest:       str.MaxWord,
				MinLength:     str.MinLength,
				MaxLength:     str.MaxLength,
				AverageLength: str.Average(),
			}
		}
		if b := s.Boolean; b.Count > 0 {
			fr.Boolean = &BooleanReport{Count: b.Count, NumTrue: b.NumTrue, NumFalse: b.NumFalse}
		}
		if a := s.ArrayLength; a.Count > 0 {
			fr.Array = &ArrayReport{
				Count:         a.Count,
				Shortest:      a.Min,
				Longest:       a.Max,
				AverageLength: a.Average(),
			}
		}
		report.Fields[name] = fr
	}
	return report
}
