package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsonsum/internal/config"
	"github.com/mcncl/jsonsum/internal/models"
	"github.com/mcncl/jsonsum/internal/summary"
	"gopkg.in/yaml.v3"
)

// Formatter renders a finished Aggregator as a report.
type Formatter struct {
	format     string
	sortFields bool
}

// NewFormatter creates a Formatter for one of the config.Format* names.
// Field order in text output is the Aggregator's map order unless sortFields
// is set; JSON and YAML output is always sorted by field name.
func NewFormatter(format string, sortFields bool) *Formatter {
	if format == "" {
		format = config.FormatText
	}
	return &Formatter{format: format, sortFields: sortFields}
}

// Format returns the rendered report as a string.
func (f *Formatter) Format(agg *summary.Aggregator) (string, error) {
	var sb strings.Builder
	if err := f.Write(&sb, agg); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write renders the report to w.
func (f *Formatter) Write(w io.Writer, agg *summary.Aggregator) error {
	switch f.format {
	case config.FormatText:
		return f.writeText(w, agg)
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(BuildReport(agg))
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(BuildReport(agg)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", f.format)
	}
}

func (f *Formatter) fieldOrder(agg *summary.Aggregator) []string {
	if f.sortFields {
		return agg.FieldNames()
	}
	names := make([]string, 0, len(agg.Fields()))
	for name := range agg.Fields() {
		names = append(names, name)
	}
	return names
}

func (f *Formatter) writeText(w io.Writer, agg *summary.Aggregator) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total number of records: %d\n", agg.TotalRecords())

	fields := agg.Fields()
	for _, name := range f.fieldOrder(agg) {
		s := fields[name]
		fmt.Fprintf(&sb, "\nField \"%s\" (count: %d)\n", name, s.Count)
		sb.WriteString("=================\n")

		for _, kind := range s.Kinds() {
			writeKindLine(&sb, s, kind)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeKindLine writes the stats line for one observed kind of a field.
func writeKindLine(sb *strings.Builder, s *summary.FieldSummary, kind models.Kind) {
	switch kind {
	case models.KindNull:
		fmt.Fprintf(sb, "Null => count: %d\n", s.NullCount)
	case models.KindObject:
		fmt.Fprintf(sb, "Object => count: %d\n", s.ObjectCount)
	case models.KindNumber:
		n := &s.Numeric
		fmt.Fprintf(sb, "Number => count: %d, min: %s, max: %s, avg: %.4f\n",
			n.Count, formatNumber(n.Min), formatNumber(n.Max), n.Average())
	case models.KindString:
		str := &s.String
		fmt.Fprintf(sb, "String => count: %d, shortest: %s, longest: %s, avg length: %.4f\n",
			str.Count, str.MinWord, str.MaxWord, str.Average())
	case models.KindBool:
		b := &s.Boolean
		fmt.Fprintf(sb, "Boolean => count: %d, # of false: %d, # of true: %d\n",
			b.Count, b.NumFalse, b.NumTrue)
	case models.KindArray:
		a := &s.ArrayLength
		fmt.Fprintf(sb, "Array => count: %d, shortest: %d, longest: %d, avg length: %.4f\n",
			a.Count, a.Min, a.Max, a.Average())
	}
}

// formatNumber prints v in plain decimal notation without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Float is a float64 that survives JSON encoding when it is not finite.
type Float float64

// MarshalJSON writes non-finite values as the strings "NaN", "+Inf" and "-Inf".
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

// MarshalYAML lets yaml.v3 write the value natively, including .inf and .nan.
func (f Float) MarshalYAML() (interface{}, error) {
	return float64(f), nil
}
