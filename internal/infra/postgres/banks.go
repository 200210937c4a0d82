package postgres

import (
	"context"
	"fmt"
)

// EnsureBank creates the bank if it does not exist and returns its id
// either way. banknr is the natural key.
func (s *Store) EnsureBank(ctx context.Context, name, banknr string) (int64, error) {
	if name == "" || banknr == "" {
		return 0, fmt.Errorf("EnsureBank: name and banknr are required")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO banks (name, banknr)
		VALUES ($1, $2)
		ON CONFLICT (banknr) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, banknr).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("EnsureBank: %w", err)
	}
	return id, nil
}
