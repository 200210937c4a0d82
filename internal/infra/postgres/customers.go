package postgres

import (
	"context"
	"fmt"

	"github.com/lucyvers/bankflow/internal/domain"
)

// UpsertCustomers writes one chunk of normalized customers in a single
// transaction. Personnummer is the natural key: a repeated identity
// updates the existing row instead of creating a second one. The xmax
// system column distinguishes fresh inserts from updates.
func (s *Store) UpsertCustomers(ctx context.Context, bankID int64, customers []domain.NormalizedCustomer) (domain.UpsertResult, error) {
	result := domain.UpsertResult{IDs: make(map[string]int64, len(customers))}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("UpsertCustomers: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (bank_id, personnummer, name, phone, address, city, postal_code, guardian_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (personnummer) DO UPDATE SET
			name          = EXCLUDED.name,
			phone         = EXCLUDED.phone,
			address       = EXCLUDED.address,
			city          = EXCLUDED.city,
			postal_code   = EXCLUDED.postal_code,
			guardian_info = EXCLUDED.guardian_info
		RETURNING id, (xmax = 0) AS inserted
	`)
	if err != nil {
		return result, fmt.Errorf("UpsertCustomers: preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range customers {
		var id int64
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			bankID, c.Personnummer, c.Name, c.Phone,
			c.Street, c.City, c.PostalCode, nullable(c.GuardianInfo),
		).Scan(&id, &inserted)
		if err != nil {
			return result, fmt.Errorf("UpsertCustomers: upserting %s: %w", c.Personnummer, err)
		}
		result.IDs[c.Personnummer] = id
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("UpsertCustomers: committing: %w", err)
	}
	return result, nil
}
