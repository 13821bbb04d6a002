package model

// FilterType identifies a filter.
type FilterType string

// Filter types.
const (
	FilterQuality       FilterType = "QUALITY_FILTER"
	FilterFrequency     FilterType = "FREQUENCY_FILTER"
	FilterPathogenicity FilterType = "PATHOGENICITY_FILTER"
	FilterVariantEffect FilterType = "VARIANT_EFFECT_FILTER"
	FilterInterval      FilterType = "INTERVAL_FILTER"
	FilterKnownVariant  FilterType = "KNOWN_VARIANT_FILTER"
	FilterInheritance   FilterType = "INHERITANCE_FILTER"
	FilterPriorityScore FilterType = "PRIORITY_SCORE_FILTER"
	FilterGeneSymbol    FilterType = "GENE_SYMBOL_FILTER"
)

// FilterStatus is the outcome of running a filter.
type FilterStatus int

// Filter statuses.
const (
	FilterNotRun FilterStatus = iota
	FilterPass
	FilterFail
)

func (s FilterStatus) String() string {
	switch s {
	case FilterPass:
		return "PASS"
	case FilterFail:
		return "FAIL"
	default:
		return "NOT_RUN"
	}
}

// FilterResult records one filter's verdict and score.
type FilterResult struct {
	Type   FilterType
	Status FilterStatus
	Score  float64
}

// Passed reports whether the filter passed.
func (r FilterResult) Passed() bool { return r.Status == FilterPass }

// Pass builds a passing result.
func Pass(t FilterType, score float64) FilterResult {
	return FilterResult{Type: t, Status: FilterPass, Score: score}
}

// Fail builds a failing result.
func Fail(t FilterType, score float64) FilterResult {
	return FilterResult{Type: t, Status: FilterFail, Score: score}
}

// FilterResults is an ordered set of filter outcomes, one per filter type.
// Re-running a filter replaces its previous result in place.
type FilterResults struct {
	results []FilterResult
}

// Add records r, replacing an earlier result of the same type.
func (fr *FilterResults) Add(r FilterResult) {
	for i := range fr.results {
		if fr.results[i].Type == r.Type {
			fr.results[i] = r
			return
		}
	}
	fr.results = append(fr.results, r)
}

// All returns the results in the order the filters first ran.
func (fr *FilterResults) All() []FilterResult {
	return append([]FilterResult(nil), fr.results...)
}

// Get returns the result for a filter type.
func (fr *FilterResults) Get(t FilterType) (FilterResult, bool) {
	for _, r := range fr.results {
		if r.Type == t {
			return r, true
		}
	}
	return FilterResult{Type: t}, false
}

// Passed reports whether no recorded filter failed. An empty set passes.
func (fr *FilterResults) Passed() bool {
	for _, r := range fr.results {
		if r.Status == FilterFail {
			return false
		}
	}
	return true
}

// Failed returns the types of the filters that failed.
func (fr *FilterResults) Failed() []FilterType {
	var failed []FilterType
	for _, r := range fr.results {
		if r.Status == FilterFail {
			failed = append(failed, r.Type)
		}
	}
	return failed
}

// Len returns the number of recorded results.
func (fr *FilterResults) Len() int { return len(fr.results) }
