package domain

// HistoryStatus classifies the outcome of a historical price lookup.
type HistoryStatus int

const (
	// HistoryOK means a usable fallback price was computed.
	HistoryOK HistoryStatus = iota
	// HistoryUnavailable means the API answered but had no positive
	// observations for the (item, city) pair.
	HistoryUnavailable
	// HistoryTransientErr means the lookup failed for a reason that may not
	// repeat (network error, non-200 status). Callers treat it as "no data"
	// once retries are exhausted.
	HistoryTransientErr
)

// HistoryResult is the outcome of a historical median-sell lookup. It replaces
// exception-style control flow with an explicit variant: exactly one of the
// three statuses applies, and Price is only meaningful when Status is
// HistoryOK.
type HistoryResult struct {
	Status HistoryStatus
	Price  int
	Err    error // set only for HistoryTransientErr
}

// OK reports whether the result carries a usable price.
func (r HistoryResult) OK() bool { return r.Status == HistoryOK }

// HistoryValue builds a successful result.
func HistoryValue(price int) HistoryResult {
	return HistoryResult{Status: HistoryOK, Price: price}
}

// HistoryNone builds an "API had no data" result.
func HistoryNone() HistoryResult {
	return HistoryResult{Status: HistoryUnavailable}
}

// HistoryError builds a transient-failure result.
func HistoryError(err error) HistoryResult {
	return HistoryResult{Status: HistoryTransientErr, Err: err}
}
