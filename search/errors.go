package search

// ErrorCode enumerates the upward-visible error taxonomy (spec.md §7). No
// exception ever crosses the RankSearcher public boundary: every classified
// failure, setup failures included (Init then returns false), is
// accumulated here; a collector error or an unclassified seek error is
// returned from Search as a plain error.
type ErrorCode int

const (
	ErrorLookupTimeout ErrorCode = iota
	ErrorSeekdocTimeout
	ErrorIndexlibIO
	ErrorSearchLookup
	ErrorSearchLookupFileIOError
	ErrorSearchSetupFilter
	ErrorSearchSetupAggregator
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorLookupTimeout:
		return "ERROR_LOOKUP_TIMEOUT"
	case ErrorSeekdocTimeout:
		return "ERROR_SEEKDOC_TIMEOUT"
	case ErrorIndexlibIO:
		return "ERROR_INDEXLIB_IO"
	case ErrorSearchLookup:
		return "ERROR_SEARCH_LOOKUP"
	case ErrorSearchLookupFileIOError:
		return "ERROR_SEARCH_LOOKUP_FILEIO_ERROR"
	case ErrorSearchSetupFilter:
		return "ERROR_SEARCH_SETUP_FILTER"
	case ErrorSearchSetupAggregator:
		return "ERROR_SEARCH_SETUP_AGGREGATOR"
	default:
		return "ERROR_UNKNOWN"
	}
}

// ErrorResult accumulates non-fatal error codes across a search session.
// Executor-construction errors from different layers all land here; the
// session proceeds as long as at least one layer succeeded (spec.md §7).
type ErrorResult struct {
	codes []ErrorCode
}

// AddError appends code to the result.
func (r *ErrorResult) AddError(code ErrorCode) {
	r.codes = append(r.codes, code)
}

// HasError reports whether any error of this code was recorded.
func (r *ErrorResult) HasError(code ErrorCode) bool {
	for _, c := range r.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Errors returns the recorded codes in the order they were appended.
func (r *ErrorResult) Errors() []ErrorCode {
	return r.codes
}

// Empty reports whether no error was ever recorded.
func (r *ErrorResult) Empty() bool {
	return len(r.codes) == 0
}
