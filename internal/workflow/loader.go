package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/domain"
)

// defaultAccountType is used for accounts created from the customer
// file, which carries no account class of its own.
const defaultAccountType = "private"

// Loader writes a normalized batch to the store in chunks. Every chunk
// commits independently: a failed chunk is recorded and skipped, the
// rest of the batch still loads. Re-running a batch is safe because all
// writes are idempotent.
type Loader struct {
	cfg    config.Config
	stores Stores
	retry  RetryPolicy
	log    zerolog.Logger
	now    func() time.Time
}

func NewLoader(cfg config.Config, stores Stores, log zerolog.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		stores: stores,
		retry:  DefaultRetryPolicy,
		log:    log,
		now:    time.Now,
	}
}

// Run loads customers, then their accounts, then transaction legs. The
// order is fixed: legs reference accounts, accounts reference customers.
func (l *Loader) Run(ctx context.Context, bankID int64, customers []domain.NormalizedCustomer, transactions []domain.NormalizedTransaction, report *Report) error {
	customerIDs, err := l.loadCustomers(ctx, bankID, customers, report)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	accountIDs, err := l.loadAccounts(ctx, bankID, customers, customerIDs, report)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	if err := l.loadLegs(ctx, transactions, accountIDs, report); err != nil {
		return fmt.Errorf("Run: %w", err)
	}
	return nil
}

func (l *Loader) loadCustomers(ctx context.Context, bankID int64, customers []domain.NormalizedCustomer, report *Report) (map[string]int64, error) {
	ids := make(map[string]int64, len(customers))
	for _, batch := range chunk(customers, l.cfg.ChunkSize) {
		var result domain.UpsertResult
		err := l.retry.Do(ctx, func() error {
			var err error
			result, err = l.stores.UpsertCustomers(ctx, bankID, batch)
			return err
		})
		if ctx.Err() != nil {
			return ids, ctx.Err()
		}
		if err != nil {
			report.ChunkErrors = append(report.ChunkErrors, fmt.Sprintf("customers chunk starting at %s: %v", batch[0].Personnummer, err))
			l.log.Error().Err(err).Int("size", len(batch)).Msg("customer chunk failed, continuing")
			continue
		}
		report.CustomersInserted += result.Inserted
		report.CustomersUpdated += result.Updated
		for key, id := range result.IDs {
			ids[key] = id
		}
	}
	return ids, nil
}

func (l *Loader) loadAccounts(ctx context.Context, bankID int64, customers []domain.NormalizedCustomer, customerIDs map[string]int64, report *Report) (map[string]int64, error) {
	var accounts []domain.Account
	seen := map[string]struct{}{}
	for _, c := range customers {
		customerID, ok := customerIDs[c.Personnummer]
		if !ok {
			// The owning customer chunk failed; the account would
			// violate its foreign key.
			continue
		}
		for _, number := range c.AccountNumbers {
			if _, dup := seen[number]; dup {
				continue
			}
			seen[number] = struct{}{}
			accounts = append(accounts, domain.Account{
				BankID:     bankID,
				Number:     number,
				CustomerID: customerID,
				Type:       defaultAccountType,
				CreatedAt:  l.now().UTC(),
			})
		}
	}

	ids := make(map[string]int64, len(accounts))
	for _, batch := range chunk(accounts, l.cfg.ChunkSize) {
		var result domain.UpsertResult
		err := l.retry.Do(ctx, func() error {
			var err error
			result, err = l.stores.UpsertAccounts(ctx, batch)
			return err
		})
		if ctx.Err() != nil {
			return ids, ctx.Err()
		}
		if err != nil {
			report.ChunkErrors = append(report.ChunkErrors, fmt.Sprintf("accounts chunk starting at %s: %v", batch[0].Number, err))
			l.log.Error().Err(err).Int("size", len(batch)).Msg("account chunk failed, continuing")
			continue
		}
		report.AccountsInserted += result.Inserted
		report.AccountsUpdated += result.Updated
		for key, id := range result.IDs {
			ids[key] = id
		}
	}
	return ids, nil
}

func (l *Loader) loadLegs(ctx context.Context, transactions []domain.NormalizedTransaction, accountIDs map[string]int64, report *Report) error {
	if err := l.resolveForeignAccounts(ctx, transactions, accountIDs); err != nil {
		return err
	}

	for _, batch := range chunk(transactions, l.cfg.ChunkSize) {
		var legs []domain.TransactionLeg
		for _, tx := range batch {
			senderID, senderOK := accountIDs[tx.SenderAccount]
			receiverID, receiverOK := accountIDs[tx.ReceiverAccount]
			if !senderOK || !receiverOK {
				report.Unloadable = append(report.Unloadable, tx.TransactionID)
				continue
			}
			legs = append(legs, materializeLegs(tx, senderID, receiverID)...)
		}
		if len(legs) == 0 {
			continue
		}

		var inserted int
		err := l.retry.Do(ctx, func() error {
			var err error
			inserted, err = l.stores.InsertLegs(ctx, legs)
			return err
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			report.ChunkErrors = append(report.ChunkErrors, fmt.Sprintf("legs chunk starting at %s: %v", batch[0].TransactionID, err))
			l.log.Error().Err(err).Int("size", len(legs)).Msg("leg chunk failed, continuing")
			continue
		}
		report.LegsInserted += inserted
	}
	return nil
}

// resolveForeignAccounts looks up accounts referenced by transactions
// but absent from this batch's customer file. They may exist from an
// earlier batch.
func (l *Loader) resolveForeignAccounts(ctx context.Context, transactions []domain.NormalizedTransaction, accountIDs map[string]int64) error {
	var missing []string
	seen := map[string]struct{}{}
	for _, tx := range transactions {
		for _, number := range []string{tx.SenderAccount, tx.ReceiverAccount} {
			if _, ok := accountIDs[number]; ok {
				continue
			}
			if _, dup := seen[number]; dup {
				continue
			}
			seen[number] = struct{}{}
			missing = append(missing, number)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	resolved, err := l.stores.AccountIDs(ctx, missing)
	if err != nil {
		return fmt.Errorf("resolving foreign accounts: %w", err)
	}
	for number, id := range resolved {
		accountIDs[number] = id
	}
	return nil
}

// materializeLegs turns one transfer into its two signed legs. The
// debit leg books the positive amount on the receiving account, the
// credit leg the negated amount on the sending account; both share the
// source transaction id.
func materializeLegs(tx domain.NormalizedTransaction, senderID, receiverID int64) []domain.TransactionLeg {
	base := domain.TransactionLeg{
		TransactionID:        tx.TransactionID,
		Currency:             tx.Currency,
		Timestamp:            tx.Timestamp,
		SenderCountry:        tx.SenderCountry,
		SenderMunicipality:   tx.SenderMunicipality,
		ReceiverCountry:      tx.ReceiverCountry,
		ReceiverMunicipality: tx.ReceiverMunicipality,
		Notes:                tx.Notes,
	}

	debit := base
	debit.AccountID = receiverID
	debit.Amount = tx.Amount
	debit.Type = domain.LegDebit

	credit := base
	credit.AccountID = senderID
	credit.Amount = tx.Amount.Neg()
	credit.Type = domain.LegCredit

	return []domain.TransactionLeg{debit, credit}
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
