// Package summary implements the incremental aggregation engine: per-field
// profiles of line-delimited JSON records, broken down by value kind.
//
// Every update is O(1) in additional memory. An Aggregator is driven by a
// single caller; independent Aggregators built over consecutive slices of
// the input can be combined with Merge.
package summary
