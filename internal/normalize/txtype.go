package normalize

import (
	"fmt"
	"strings"
)

// Canonical transaction-type vocabulary.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// legacyTypes maps the legacy vocabulary onto the canonical one.
var legacyTypes = map[string]string{
	"incoming": TypeDebit,
	"outgoing": TypeCredit,
}

// TransactionType maps a raw type token to the canonical debit/credit
// vocabulary. Canonical tokens pass through so already-converted exports
// reload cleanly; anything outside both vocabularies is an explicit
// failure, never a silent pass-through.
func TransactionType(token string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == TypeDebit || t == TypeCredit {
		return t, nil
	}
	if canonical, ok := legacyTypes[t]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("unmapped transaction type: %q", token)
}
