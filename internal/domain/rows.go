package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRow is one line of the customer flat file, typed at the
// ingestion boundary. The validate tags cover field presence; everything
// beyond presence is the validators' job.
type CustomerRow struct {
	// Line is the 1-based source file line, header included.
	Line int `validate:"-"`

	Personnummer string `validate:"required"`
	Name         string `validate:"required"`
	Phone        string `validate:"required"`
	Address      string `validate:"required"`
	BankAccount  string `validate:"required"`
	Country      string
	GuardianInfo string
}

// TransactionRow is one line of the transaction flat file. Amount is
// parsed by the reader; Timestamp stays a string until normalization so a
// malformed value surfaces as a row failure, not a parse panic.
type TransactionRow struct {
	Line int `validate:"-"`

	TransactionID        string `validate:"required"`
	Timestamp            string `validate:"required"`
	Amount               decimal.Decimal
	Currency             string `validate:"required"`
	SenderAccount        string `validate:"required"`
	ReceiverAccount      string `validate:"required"`
	SenderCountry        string
	SenderMunicipality   string
	ReceiverCountry      string
	ReceiverMunicipality string
	TransactionType      string `validate:"required"`
	AccountType          string
	Notes                string
}

// NormalizedCustomer is a customer row after canonicalization: address
// split into parts, phone in the persisted international rendering,
// repeated identity rows collapsed upstream. AccountNumbers carries
// every distinct account the identity's raw rows referenced; an
// identity with several accounts occupies several source rows but only
// one normalized record.
type NormalizedCustomer struct {
	Personnummer   string
	Name           string
	Phone          string
	Street         string
	PostalCode     string
	City           string
	AccountNumbers []string
	GuardianInfo   string
}

// NormalizedTransaction is a transaction row after canonicalization:
// parsed timestamp and the canonical debit/credit type token.
type NormalizedTransaction struct {
	TransactionID        string
	Timestamp            time.Time
	Amount               decimal.Decimal
	Currency             string
	SenderAccount        string
	ReceiverAccount      string
	SenderCountry        string
	SenderMunicipality   string
	ReceiverCountry      string
	ReceiverMunicipality string
	Notes                string
}
