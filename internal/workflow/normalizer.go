package workflow

import (
	"github.com/lucyvers/bankflow/internal/domain"
	"github.com/lucyvers/bankflow/internal/normalize"
	"github.com/lucyvers/bankflow/internal/validate"
)

// NormalizeCustomers canonicalizes validated customer rows and collapses
// repeated identities: the first row for a personnummer supplies the
// customer fields, and every row contributes its account number, since
// one identity commonly holds several accounts across several rows.
// Phones are rendered in the persisted "+cc(area)XXX XX XX" form, the
// only shape the store's phone constraint accepts. Rows whose address
// or phone still resist canonicalization come back as verdicts.
func NormalizeCustomers(rows []domain.CustomerRow) ([]domain.NormalizedCustomer, []domain.Verdict) {
	var out []domain.NormalizedCustomer
	var failed []domain.Verdict
	index := map[string]int{}

	for _, row := range rows {
		if i, dup := index[row.Personnummer]; dup {
			out[i].AccountNumbers = appendAccount(out[i].AccountNumbers, row.BankAccount)
			continue
		}

		street, postal, city, ok := normalize.SplitAddress(row.Address)
		if !ok {
			failed = append(failed, domain.Verdict{
				Line: row.Line, Key: row.Personnummer,
				Reasons: []string{"Address cannot be normalized"},
			})
			continue
		}
		phone, err := normalize.InternationalPhone(row.Phone)
		if err != nil {
			failed = append(failed, domain.Verdict{
				Line: row.Line, Key: row.Personnummer,
				Reasons: []string{"Phone cannot be normalized"},
			})
			continue
		}

		index[row.Personnummer] = len(out)
		out = append(out, domain.NormalizedCustomer{
			Personnummer:   row.Personnummer,
			Name:           row.Name,
			Phone:          phone,
			Street:         street,
			PostalCode:     postal,
			City:           city,
			AccountNumbers: appendAccount(nil, row.BankAccount),
			GuardianInfo:   row.GuardianInfo,
		})
	}
	return out, failed
}

func appendAccount(numbers []string, number string) []string {
	if number == "" {
		return numbers
	}
	for _, n := range numbers {
		if n == number {
			return numbers
		}
	}
	return append(numbers, number)
}

// NormalizeTransactions canonicalizes validated transaction rows:
// parsed timestamps, trimmed free-text fields. The direction token was
// already checked by validation and is not carried further; both legs
// of every transfer are materialized downstream.
func NormalizeTransactions(rows []domain.TransactionRow) ([]domain.NormalizedTransaction, []domain.Verdict) {
	var out []domain.NormalizedTransaction
	var failed []domain.Verdict

	for _, row := range rows {
		ts, err := validate.ParseTimestamp(row.Timestamp)
		if err != nil {
			failed = append(failed, domain.Verdict{
				Line: row.Line, Key: row.TransactionID,
				Reasons: []string{"Timestamp cannot be normalized"},
			})
			continue
		}
		out = append(out, domain.NormalizedTransaction{
			TransactionID:        row.TransactionID,
			Timestamp:            ts,
			Amount:               row.Amount,
			Currency:             row.Currency,
			SenderAccount:        row.SenderAccount,
			ReceiverAccount:      row.ReceiverAccount,
			SenderCountry:        row.SenderCountry,
			SenderMunicipality:   row.SenderMunicipality,
			ReceiverCountry:      row.ReceiverCountry,
			ReceiverMunicipality: row.ReceiverMunicipality,
			Notes:                row.Notes,
		})
	}
	return out, failed
}
