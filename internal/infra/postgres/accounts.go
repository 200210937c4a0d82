package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lucyvers/bankflow/internal/domain"
)

// UpsertAccounts writes one chunk of accounts in a single transaction.
// Account number is the natural key; ownership follows the latest batch.
func (s *Store) UpsertAccounts(ctx context.Context, accounts []domain.Account) (domain.UpsertResult, error) {
	result := domain.UpsertResult{IDs: make(map[string]int64, len(accounts))}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("UpsertAccounts: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (bank_id, account_number, customer_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_number) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			type        = EXCLUDED.type
		RETURNING id, (xmax = 0) AS inserted
	`)
	if err != nil {
		return result, fmt.Errorf("UpsertAccounts: preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range accounts {
		var id int64
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			a.BankID, a.Number, a.CustomerID, a.Type, a.CreatedAt,
		).Scan(&id, &inserted)
		if err != nil {
			return result, fmt.Errorf("UpsertAccounts: upserting %s: %w", a.Number, err)
		}
		result.IDs[a.Number] = id
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("UpsertAccounts: committing: %w", err)
	}
	return result, nil
}

// AccountIDs resolves account numbers to surrogate ids for accounts
// that already exist in the store.
func (s *Store) AccountIDs(ctx context.Context, numbers []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(numbers))
	stmt, err := s.db.PrepareContext(ctx, `SELECT id FROM accounts WHERE account_number = $1`)
	if err != nil {
		return nil, fmt.Errorf("AccountIDs: preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, number := range numbers {
		var id int64
		err := stmt.QueryRowContext(ctx, number).Scan(&id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("AccountIDs: resolving %s: %w", number, err)
		}
		ids[number] = id
	}
	return ids, nil
}
