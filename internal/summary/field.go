package summary

import "github.com/mcncl/jsonsum/internal/models"

// FieldSummary is the profile of a single field name across all records.
//
// Count always equals NullCount + ObjectCount plus the Count of each of the
// four kind-specific stats.
type FieldSummary struct {
	Count       uint64
	NullCount   uint64
	ObjectCount uint64
	Numeric     NumericStats
	String      StringStats
	Boolean     BoolStats
	ArrayLength ArrayStats
}

// NewFieldSummary returns an empty FieldSummary.
func NewFieldSummary() *FieldSummary {
	return &FieldSummary{}
}

// Observe routes v to the stats for its kind. Values outside the JSON value
// model (anything models.KindOf reports as invalid) are ignored and not
// counted.
func (f *FieldSummary) Observe(v models.JSONValue) {
	kind := models.KindOf(v)
	if kind == models.KindInvalid {
		return
	}

	f.Count++
	switch kind {
	case models.KindNull:
		f.NullCount++
	case models.KindObject:
		f.ObjectCount++
	case models.KindNumber:
		f.Numeric.Observe(toFloat(v))
	case models.KindString:
		f.String.Observe(v.(string))
	case models.KindBool:
		f.Boolean.Observe(v.(bool))
	case models.KindArray:
		f.ArrayLength.Observe(arrayLen(v))
	}
}

// Kinds returns the kinds observed at least once, in a fixed order.
func (f *FieldSummary) Kinds() []models.Kind {
	kinds := make([]models.Kind, 0, 6)
	if f.NullCount > 0 {
		kinds = append(kinds, models.KindNull)
	}
	if f.ObjectCount > 0 {
		kinds = append(kinds, models.KindObject)
	}
	if f.Numeric.Count > 0 {
		kinds = append(kinds, models.KindNumber)
	}
	if f.String.Count > 0 {
		kinds = append(kinds, models.KindString)
	}
	if f.Boolean.Count > 0 {
		kinds = append(kinds, models.KindBool)
	}
	if f.ArrayLength.Count > 0 {
		kinds = append(kinds, models.KindArray)
	}
	return kinds
}

func (f *FieldSummary) merge(other *FieldSummary) {
	f.Count += other.Count
	f.NullCount += other.NullCount
	f.ObjectCount += other.ObjectCount
	f.Numeric.merge(other.Numeric)
	f.String.merge(other.String)
	f.Boolean.merge(other.Boolean)
	f.ArrayLength.merge(other.ArrayLength)
}

func arrayLen(v models.JSONValue) int {
	switch a := v.(type) {
	case models.JSONArray:
		return len(a)
	case []interface{}:
		return len(a)
	}
	return 0
}
