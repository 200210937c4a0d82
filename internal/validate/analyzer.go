package validate

import (
	"sort"

	"github.com/lucyvers/bankflow/internal/domain"
	"github.com/lucyvers/bankflow/internal/normalize"
)

// Findings collects cross-row inconsistencies in a batch. Row-level
// validation judges each record alone; the analyzer compares records
// against each other.
type Findings struct {
	// InconsistentNames maps a personnummer to the distinct names it
	// appears under, when there is more than one.
	InconsistentNames map[string][]string `json:"inconsistent_names,omitempty"`
	// InconsistentAddresses maps a personnummer to its distinct addresses.
	InconsistentAddresses map[string][]string `json:"inconsistent_addresses,omitempty"`
	// InconsistentPhones maps a personnummer to its distinct phone
	// numbers, compared after standardization where possible.
	InconsistentPhones map[string][]string `json:"inconsistent_phones,omitempty"`
	// SharedAccounts maps an account number to the personnummer of every
	// identity claiming it, when there is more than one.
	SharedAccounts map[string][]string `json:"shared_accounts,omitempty"`
	// SharedPhones maps a phone number to the identities sharing it.
	SharedPhones map[string][]string `json:"shared_phones,omitempty"`
	// DuplicateIdentities maps a personnummer to the number of rows it
	// occupies when that meets the duplicate threshold.
	DuplicateIdentities map[string]int `json:"duplicate_identities,omitempty"`
	// DuplicateTransactions maps a transaction id to its occurrence
	// count when it meets the duplicate threshold.
	DuplicateTransactions map[string]int `json:"duplicate_transactions,omitempty"`
}

func (f Findings) Empty() bool {
	return len(f.InconsistentNames) == 0 &&
		len(f.InconsistentAddresses) == 0 &&
		len(f.InconsistentPhones) == 0 &&
		len(f.SharedAccounts) == 0 &&
		len(f.SharedPhones) == 0 &&
		len(f.DuplicateIdentities) == 0 &&
		len(f.DuplicateTransactions) == 0
}

// Analyzer performs whole-batch consistency checks.
type Analyzer struct {
	duplicateThreshold int
}

func NewAnalyzer(duplicateThreshold int) *Analyzer {
	if duplicateThreshold < 2 {
		duplicateThreshold = 2
	}
	return &Analyzer{duplicateThreshold: duplicateThreshold}
}

// Analyze scans all rows of a batch and returns every finding. Slices
// inside the result are sorted so output is deterministic.
func (a *Analyzer) Analyze(customers []domain.CustomerRow, transactions []domain.TransactionRow) Findings {
	f := Findings{
		InconsistentNames:     map[string][]string{},
		InconsistentAddresses: map[string][]string{},
		InconsistentPhones:    map[string][]string{},
		SharedAccounts:        map[string][]string{},
		SharedPhones:          map[string][]string{},
		DuplicateIdentities:   map[string]int{},
		DuplicateTransactions: map[string]int{},
	}

	names := map[string]map[string]struct{}{}
	addresses := map[string]map[string]struct{}{}
	phones := map[string]map[string]struct{}{}
	accountOwners := map[string]map[string]struct{}{}
	phoneOwners := map[string]map[string]struct{}{}
	identityRows := map[string]int{}

	for _, row := range customers {
		if row.Personnummer == "" {
			continue
		}
		identityRows[row.Personnummer]++
		record(names, row.Personnummer, row.Name)
		record(addresses, row.Personnummer, row.Address)
		record(phones, row.Personnummer, comparablePhone(row.Phone))
		record(accountOwners, row.BankAccount, row.Personnummer)
		record(phoneOwners, comparablePhone(row.Phone), row.Personnummer)
	}

	collectConflicts(f.InconsistentNames, names)
	collectConflicts(f.InconsistentAddresses, addresses)
	collectConflicts(f.InconsistentPhones, phones)
	collectConflicts(f.SharedAccounts, accountOwners)
	collectConflicts(f.SharedPhones, phoneOwners)

	for pnr, n := range identityRows {
		if n >= a.duplicateThreshold {
			f.DuplicateIdentities[pnr] = n
		}
	}

	counts := map[string]int{}
	for _, row := range transactions {
		if row.TransactionID != "" {
			counts[row.TransactionID]++
		}
	}
	for id, n := range counts {
		if n >= a.duplicateThreshold {
			f.DuplicateTransactions[id] = n
		}
	}

	return f
}

// comparablePhone reduces a phone number to its canonical form so that
// "070-123 45 67" and "+46701234567" count as the same number. Numbers
// that cannot be standardized are compared by their digits.
func comparablePhone(phone string) string {
	if std, err := normalize.StandardizePhone(phone); err == nil {
		return std
	}
	return normalize.CleanPhone(phone)
}

func record(m map[string]map[string]struct{}, key, value string) {
	if key == "" || value == "" {
		return
	}
	set, ok := m[key]
	if !ok {
		set = map[string]struct{}{}
		m[key] = set
	}
	set[value] = struct{}{}
}

func collectConflicts(dst map[string][]string, src map[string]map[string]struct{}) {
	for key, values := range src {
		if len(values) < 2 {
			continue
		}
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		dst[key] = list
	}
}
