package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lucyvers/bankflow/internal/domain"
)

// InsertLegs writes one chunk of transaction legs in a single
// transaction. The unique pair (transaction_id, transaction_type) makes
// the insert idempotent: a leg that already exists is silently skipped
// and not counted.
func (s *Store) InsertLegs(ctx context.Context, legs []domain.TransactionLeg) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("InsertLegs: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			transaction_id, account_id, amount, currency, timestamp,
			sender_country, sender_municipality,
			receiver_country, receiver_municipality,
			transaction_type, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (transaction_id, transaction_type) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("InsertLegs: preparing statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, leg := range legs {
		res, err := stmt.ExecContext(ctx,
			leg.TransactionID, leg.AccountID, leg.Amount, leg.Currency, leg.Timestamp,
			nullable(leg.SenderCountry), nullable(leg.SenderMunicipality),
			nullable(leg.ReceiverCountry), nullable(leg.ReceiverMunicipality),
			string(leg.Type), nullable(leg.Notes),
		)
		if err != nil {
			return inserted, fmt.Errorf("InsertLegs: inserting %s/%s: %w", leg.TransactionID, leg.Type, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("InsertLegs: checking rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("InsertLegs: committing: %w", err)
	}
	return inserted, nil
}

// History returns a lookback provider backed by the transactions table.
// Query failures degrade to "no history" and are logged rather than
// failing validation.
func (s *Store) History(ctx context.Context, log zerolog.Logger) *LegHistory {
	return &LegHistory{db: s.db, ctx: ctx, log: log}
}

// LegHistory answers the validators' frequency questions from persisted
// legs. Only credit legs count: they mark the sending side of a
// transfer.
type LegHistory struct {
	db  *sql.DB
	ctx context.Context
	log zerolog.Logger
}

func (h *LegHistory) DailyCount(account string, ts time.Time) int {
	var count int
	err := h.db.QueryRowContext(h.ctx, `
		SELECT COUNT(*)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.account_number = $1
		  AND t.transaction_type = 'credit'
		  AND t.timestamp >= $2 AND t.timestamp < $3
	`, account, ts.Truncate(24*time.Hour), ts.Truncate(24*time.Hour).Add(24*time.Hour)).Scan(&count)
	if err != nil {
		h.log.Warn().Err(err).Str("account", account).Msg("daily count lookup failed, assuming no history")
		return 0
	}
	return count
}

func (h *LegHistory) LastTransfer(account string, ts time.Time) (time.Time, bool) {
	var last time.Time
	err := h.db.QueryRowContext(h.ctx, `
		SELECT t.timestamp
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.account_number = $1
		  AND t.transaction_type = 'credit'
		  AND t.timestamp < $2
		ORDER BY t.timestamp DESC
		LIMIT 1
	`, account, ts).Scan(&last)
	if err == sql.ErrNoRows {
		return time.Time{}, false
	}
	if err != nil {
		h.log.Warn().Err(err).Str("account", account).Msg("last transfer lookup failed, assuming no history")
		return time.Time{}, false
	}
	return last, true
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
