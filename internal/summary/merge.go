package summary

// Merge folds src into dst, treating every record src saw as coming after
// every record dst saw. The result matches a single Aggregator fed dst's
// records followed by src's, including which word wins a string length tie.
//
// src is not modified. Summaries for fields new to dst are copied, so dst
// never aliases src.
func Merge(dst, src *Aggregator) {
	dst.totalRecords += src.totalRecords

	for name, theirs := range src.fields {
		ours, exists := dst.fields[name]
		if !exists {
			copied := *theirs
			dst.fields[name] = &copied
			continue
		}
		ours.merge(theirs)
	}
}
