package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank owns customers and accounts. One loader run targets one bank.
type Bank struct {
	ID     int64
	Name   string
	BankNr string
}

// Customer is the persistent customer entity. Personnummer is the natural
// key: one row per identity no matter how many raw lines referenced it.
type Customer struct {
	ID           int64
	BankID       int64
	Personnummer string
	Name         string
	Phone        string
	Address      string
	City         string
	PostalCode   string
	GuardianInfo string
}

// Account is the persistent account entity, keyed by account number and
// always owned by an existing customer.
type Account struct {
	ID         int64
	BankID     int64
	Number     string
	CustomerID int64
	Type       string
	CreatedAt  time.Time
}

// LegType is the side of a transfer a leg books.
type LegType string

const (
	LegDebit  LegType = "debit"
	LegCredit LegType = "credit"
)

// Opposite returns the other side.
func (t LegType) Opposite() LegType {
	if t == LegDebit {
		return LegCredit
	}
	return LegDebit
}

// TransactionLeg is one signed half of a transfer. The pair
// (TransactionID, Type) is unique; TransactionID alone is shared by the
// two legs of one source transaction.
type TransactionLeg struct {
	ID                   int64
	TransactionID        string
	AccountID            int64
	Amount               decimal.Decimal
	Currency             string
	Timestamp            time.Time
	SenderCountry        string
	SenderMunicipality   string
	ReceiverCountry      string
	ReceiverMunicipality string
	Type                 LegType
	Notes                string
}
