package filter

// Operator reduces the per-argument results of a filter into the single
// decision that gates a functor. Implementations are stateless and usable as
// their zero value. The caller folds every result, already evaluated, starting
// from Identity.
type Operator interface {
	// Identity is the decision for an empty result list.
	Identity() bool
	Combine(acc, result bool) bool
}

// And passes when every result is true. An empty result list passes.
type And struct{}

func (And) Identity() bool {
	return true
}

func (And) Combine(acc, result bool) bool {
	return acc && result
}

// Or passes when at least one result is true.
type Or struct{}

func (Or) Identity() bool {
	return false
}

func (Or) Combine(acc, result bool) bool {
	return acc || result
}

// OperatorName returns the name used in diagnostics for the operator type.
func OperatorName[C Operator]() string {
	var op C
	switch any(op).(type) {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "custom"
	}
}
