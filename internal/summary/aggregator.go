package summary

import (
	"sort"

	"github.com/mcncl/jsonsum/internal/models"
)

// KeyTransform rewrites a field name before it is aggregated. Returning
// ok == false drops the field from the record.
type KeyTransform func(key string) (name string, ok bool)

// Aggregator owns the per-field summaries and the record counter for one run.
// It is not safe for concurrent use.
type Aggregator struct {
	totalRecords uint64
	fields       map[string]*FieldSummary
	transform    KeyTransform
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		fields: make(map[string]*FieldSummary),
	}
}

// NewAggregatorWithKeyTransform creates an Aggregator that passes every field
// name through fn before lookup. A nil fn behaves like NewAggregator.
func NewAggregatorWithKeyTransform(fn KeyTransform) *Aggregator {
	a := NewAggregator()
	a.transform = fn
	return a
}

// ApplyRecord counts one record and observes each of its fields. The record
// is counted even when it has no fields. When the key transform maps several
// keys of one record to the same name, only the key that sorts first is
// observed, so a field is counted at most once per record.
func (a *Aggregator) ApplyRecord(record models.JSONObject) {
	a.totalRecords++

	if a.transform == nil {
		for key, value := range record {
			a.observe(key, value)
		}
		return
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		name, ok := a.transform(key)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		a.observe(name, record[key])
	}
}

func (a *Aggregator) observe(name string, value models.JSONValue) {
	summary, exists := a.fields[name]
	if !exists {
		summary = NewFieldSummary()
		a.fields[name] = summary
	}
	summary.Observe(value)
}

// TotalRecords returns the number of records applied so far.
func (a *Aggregator) TotalRecords() uint64 {
	return a.totalRecords
}

// Fields returns the field summaries keyed by field name. The map is owned by
// the Aggregator and must not be modified.
func (a *Aggregator) Fields() map[string]*FieldSummary {
	return a.fields
}

// Field returns the summary for name, if that field has been observed.
func (a *Aggregator) Field(name string) (*FieldSummary, bool) {
	f, ok := a.fields[name]
	return f, ok
}

// FieldNames returns the observed field names in sorted order.
func (a *Aggregator) FieldNames() []string {
	names := make([]string, 0, len(a.fields))
	for name := range a.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
