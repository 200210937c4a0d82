package domain

// Verdict ties a raw row to its ordered violation reasons. An empty
// reason list means the row passed. Verdicts are values produced per
// validation pass and never persisted.
type Verdict struct {
	// Line is the 1-based position of the row in its source file.
	Line int

	// Key identifies the record for reporting: personnummer for customer
	// rows, transaction id for transaction rows.
	Key string

	// Reasons lists every rule the row violated, in evaluation order.
	Reasons []string
}

// Valid reports whether the row passed every check.
func (v Verdict) Valid() bool {
	return len(v.Reasons) == 0
}
