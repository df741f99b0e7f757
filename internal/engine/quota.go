package engine

// QuotaEnforcer counts the solutions an execution hands out and enforces
// a maximum.
//
// Each Execution has its own QuotaEnforcer instance. A limit of zero or
// less means unbounded.
type QuotaEnforcer struct {
	maxSolutions int // Maximum allowed solutions (<= 0: unbounded)
	current      int // Solutions handed out so far
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxSolutions int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSolutions: maxSolutions}
}

// Check increments the solution counter and validates against the limit.
//
// Returns a quota RuntimeError once the limit is exceeded.
func (q *QuotaEnforcer) Check() error {
	q.current++
	if q.maxSolutions > 0 && q.current > q.maxSolutions {
		return NewQuotaError(q.current, q.maxSolutions)
	}
	return nil
}

// Current returns the current solution count.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSolutions returns the configured limit.
func (q *QuotaEnforcer) MaxSolutions() int {
	return q.maxSolutions
}
