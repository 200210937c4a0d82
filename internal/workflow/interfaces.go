package workflow

import (
	"context"

	"github.com/lucyvers/bankflow/internal/domain"
)

// Store interfaces are declared where they are consumed so the loader
// can run against the relational store or a test double.

type BankStore interface {
	EnsureBank(ctx context.Context, name, banknr string) (int64, error)
}

type CustomerStore interface {
	UpsertCustomers(ctx context.Context, bankID int64, customers []domain.NormalizedCustomer) (domain.UpsertResult, error)
}

type AccountStore interface {
	UpsertAccounts(ctx context.Context, accounts []domain.Account) (domain.UpsertResult, error)
	AccountIDs(ctx context.Context, numbers []string) (map[string]int64, error)
}

type LegStore interface {
	InsertLegs(ctx context.Context, legs []domain.TransactionLeg) (int, error)
}

// Stores bundles everything the loader writes to.
type Stores interface {
	BankStore
	CustomerStore
	AccountStore
	LegStore
}
