package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/domain"
	"github.com/lucyvers/bankflow/internal/logger"
	"github.com/lucyvers/bankflow/internal/reader"
	"github.com/lucyvers/bankflow/internal/validate"
)

// Locker serializes batch runs. The closure runs with the lock held.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// BatchRequest identifies one batch run: where the two flat files live
// and which bank owns the data.
type BatchRequest struct {
	BatchID         string `json:"batch_id,omitempty"`
	BankName        string `json:"bank_name,omitempty"`
	BankNr          string `json:"banknr,omitempty"`
	CustomersURI    string `json:"customers_uri"`
	TransactionsURI string `json:"transactions_uri"`
}

const (
	defaultBankName = "SEB"
	defaultBankNr   = "8902"
)

// Service runs the whole batch: fetch, parse, validate, analyze,
// normalize, load. One Service handles many batches; runs targeting
// the same bank serialize under a shared lock so concurrent batches
// cannot race on overlapping identities or account numbers.
type Service struct {
	cfg      config.Config
	stores   Stores
	locker   Locker
	lookback validate.LookbackProvider
	reports  *ReportStore
	log      zerolog.Logger
}

func NewService(cfg config.Config, stores Stores, locker Locker, lookback validate.LookbackProvider, reports *ReportStore, log zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		stores:   stores,
		locker:   locker,
		lookback: lookback,
		reports:  reports,
		log:      log,
	}
}

// Run processes one batch end to end and returns its report. The report
// is stored and retrievable by batch id even when the run failed
// partway.
func (s *Service) Run(ctx context.Context, req BatchRequest) (*Report, error) {
	if req.BatchID == "" {
		req.BatchID = uuid.NewString()
	}
	if req.BankName == "" {
		req.BankName = defaultBankName
	}
	if req.BankNr == "" {
		req.BankNr = defaultBankNr
	}

	log := logger.WithBatch(s.log, req.BatchID)
	report := NewReport(req.BatchID)

	err := s.locker.WithLock(ctx, "bankflow:bank:"+req.BankNr, func(ctx context.Context) error {
		return s.run(ctx, req, report, log)
	})

	report.Finish()
	s.reports.Save(report)

	log.Info().
		Int("customers_read", report.CustomersRead).
		Int("transactions_read", report.TransactionsRead).
		Int("invalid_customers", len(report.InvalidCustomers)).
		Int("invalid_transactions", len(report.InvalidTransactions)).
		Int("legs_inserted", report.LegsInserted).
		Int("unloadable", len(report.Unloadable)).
		Bool("database_export_success", report.DatabaseExportSuccess).
		Msg("batch finished")

	if err != nil {
		return report, fmt.Errorf("Run: batch %s: %w", req.BatchID, err)
	}
	return report, nil
}

func (s *Service) run(ctx context.Context, req BatchRequest, report *Report, log zerolog.Logger) error {
	customers, err := s.readCustomers(ctx, req.CustomersURI, report)
	if err != nil {
		return err
	}
	transactions, err := s.readTransactions(ctx, req.TransactionsURI, report)
	if err != nil {
		return err
	}

	report.Findings = validate.NewAnalyzer(s.cfg.DuplicateThreshold).Analyze(customers, transactions)
	if !report.Findings.Empty() {
		log.Warn().
			Int("inconsistent_identities", len(report.Findings.InconsistentNames)).
			Int("shared_accounts", len(report.Findings.SharedAccounts)).
			Int("duplicate_identities", len(report.Findings.DuplicateIdentities)).
			Int("duplicate_transactions", len(report.Findings.DuplicateTransactions)).
			Msg("batch consistency findings")
	}

	validCustomers := s.validateCustomers(customers, report)
	validTransactions := s.validateTransactions(transactions, report)

	normalizedCustomers, failed := NormalizeCustomers(validCustomers)
	report.RecordCustomerVerdicts(failed)
	normalizedTransactions, failed := NormalizeTransactions(validTransactions)
	report.RecordTransactionVerdicts(failed)

	bankID, err := s.stores.EnsureBank(ctx, req.BankName, req.BankNr)
	if err != nil {
		return err
	}

	loader := NewLoader(s.cfg, s.stores, log)
	return loader.Run(ctx, bankID, normalizedCustomers, normalizedTransactions, report)
}

func (s *Service) readCustomers(ctx context.Context, uri string, report *Report) ([]domain.CustomerRow, error) {
	src, err := reader.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetching customers: %w", err)
	}
	defer src.Close()

	rows, rowErrs, err := reader.ParseCustomers(src)
	if err != nil {
		return nil, fmt.Errorf("parsing customers: %w", err)
	}
	report.CustomersRead = len(rows)
	report.CustomerRowErrors = rowErrs
	return rows, nil
}

func (s *Service) readTransactions(ctx context.Context, uri string, report *Report) ([]domain.TransactionRow, error) {
	src, err := reader.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	defer src.Close()

	rows, rowErrs, err := reader.ParseTransactions(src)
	if err != nil {
		return nil, fmt.Errorf("parsing transactions: %w", err)
	}
	report.TransactionsRead = len(rows)
	report.TransactionRowErrors = rowErrs
	return rows, nil
}

func (s *Service) validateCustomers(rows []domain.CustomerRow, report *Report) []domain.CustomerRow {
	v := validate.NewCustomerValidator(&s.cfg)
	var valid []domain.CustomerRow
	var verdicts []domain.Verdict
	for _, row := range rows {
		verdict := v.Validate(row.Line, row)
		verdicts = append(verdicts, verdict)
		if verdict.Valid() {
			valid = append(valid, row)
		}
	}
	report.RecordCustomerVerdicts(verdicts)
	return valid
}

func (s *Service) validateTransactions(rows []domain.TransactionRow, report *Report) []domain.TransactionRow {
	v := validate.NewTransactionValidator(&s.cfg, s.lookback)
	var valid []domain.TransactionRow
	var verdicts []domain.Verdict
	for _, row := range rows {
		verdict := v.Validate(row.Line, row)
		verdicts = append(verdicts, verdict)
		if verdict.Valid() {
			valid = append(valid, row)
		}
	}
	report.RecordTransactionVerdicts(verdicts)
	return valid
}
