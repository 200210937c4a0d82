package workflow

import (
	"time"

	"github.com/lucyvers/bankflow/internal/domain"
	"github.com/lucyvers/bankflow/internal/reader"
	"github.com/lucyvers/bankflow/internal/validate"
)

// Report is the full account of one batch run: what was read, what was
// rejected and why, what the analyzer found, and what reached the store.
type Report struct {
	BatchID    string    `json:"batch_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	CustomersRead    int `json:"customers_read"`
	TransactionsRead int `json:"transactions_read"`

	CustomerRowErrors    []reader.RowError `json:"customer_row_errors,omitempty"`
	TransactionRowErrors []reader.RowError `json:"transaction_row_errors,omitempty"`

	InvalidCustomers    []domain.Verdict `json:"invalid_customers,omitempty"`
	InvalidTransactions []domain.Verdict `json:"invalid_transactions,omitempty"`

	Findings validate.Findings `json:"findings"`

	CustomersInserted int `json:"customers_inserted"`
	CustomersUpdated  int `json:"customers_updated"`
	AccountsInserted  int `json:"accounts_inserted"`
	AccountsUpdated   int `json:"accounts_updated"`
	LegsInserted      int `json:"legs_inserted"`

	// Unloadable lists transaction ids whose accounts could not be
	// resolved to stored accounts.
	Unloadable []string `json:"unloadable,omitempty"`

	// ChunkErrors records store chunks that failed after retries. The
	// run continues past them.
	ChunkErrors []string `json:"chunk_errors,omitempty"`

	// ReasonCounts aggregates every violation reason across both files.
	ReasonCounts map[string]int `json:"reason_counts,omitempty"`

	DatabaseExportSuccess bool `json:"database_export_success"`
}

func NewReport(batchID string) *Report {
	return &Report{
		BatchID:      batchID,
		StartedAt:    time.Now().UTC(),
		ReasonCounts: map[string]int{},
	}
}

// RecordCustomerVerdicts splits verdicts into valid and invalid,
// keeping the invalid ones and tallying their reasons.
func (r *Report) RecordCustomerVerdicts(verdicts []domain.Verdict) {
	for _, v := range verdicts {
		if v.Valid() {
			continue
		}
		r.InvalidCustomers = append(r.InvalidCustomers, v)
		r.countReasons(v)
	}
}

func (r *Report) RecordTransactionVerdicts(verdicts []domain.Verdict) {
	for _, v := range verdicts {
		if v.Valid() {
			continue
		}
		r.InvalidTransactions = append(r.InvalidTransactions, v)
		r.countReasons(v)
	}
}

func (r *Report) countReasons(v domain.Verdict) {
	for _, reason := range v.Reasons {
		r.ReasonCounts[reason]++
	}
}

// CustomerPassRate is the share of read customer rows that passed both
// parsing and validation.
func (r *Report) CustomerPassRate() float64 {
	total := r.CustomersRead + len(r.CustomerRowErrors)
	if total == 0 {
		return 1
	}
	passed := r.CustomersRead - len(r.InvalidCustomers)
	return float64(passed) / float64(total)
}

// TransactionPassRate is the share of read transaction rows that passed.
func (r *Report) TransactionPassRate() float64 {
	total := r.TransactionsRead + len(r.TransactionRowErrors)
	if total == 0 {
		return 1
	}
	passed := r.TransactionsRead - len(r.InvalidTransactions)
	return float64(passed) / float64(total)
}

// Finish stamps the end time and settles the export flag: the export
// succeeded when no chunk failed outright.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
	r.DatabaseExportSuccess = len(r.ChunkErrors) == 0
}
