package validate

import (
	"time"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/domain"
	"github.com/lucyvers/bankflow/internal/normalize"
)

// timestampLayouts are the formats the source systems emit, tried in
// order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LookbackProvider answers history questions for the frequency rules.
// Implementations may be backed by the relational store; NoHistory is
// used when no history is available, which disables both rules.
type LookbackProvider interface {
	// DailyCount returns how many transfers the account already made on
	// the calendar day of ts.
	DailyCount(account string, ts time.Time) int
	// LastTransfer returns the timestamp of the account's most recent
	// transfer before ts, if any.
	LastTransfer(account string, ts time.Time) (time.Time, bool)
}

// NoHistory is the zero LookbackProvider.
type NoHistory struct{}

func (NoHistory) DailyCount(string, time.Time) int { return 0 }

func (NoHistory) LastTransfer(string, time.Time) (time.Time, bool) { return time.Time{}, false }

// TransactionValidator applies every transaction rule to a row and
// collects all violations without short-circuiting.
type TransactionValidator struct {
	cfg      *config.Config
	lookback LookbackProvider
}

func NewTransactionValidator(cfg *config.Config, lookback LookbackProvider) *TransactionValidator {
	if lookback == nil {
		lookback = NoHistory{}
	}
	return &TransactionValidator{cfg: cfg, lookback: lookback}
}

// Validate evaluates a single parsed transaction row. The verdict is
// keyed by transaction id.
func (v *TransactionValidator) Validate(line int, row domain.TransactionRow) domain.Verdict {
	verdict := domain.Verdict{Line: line, Key: row.TransactionID}

	ts, tsReasons := v.checkTimestamp(row.Timestamp)
	verdict.Reasons = append(verdict.Reasons, tsReasons...)
	verdict.Reasons = append(verdict.Reasons, v.checkAmount(row)...)
	verdict.Reasons = append(verdict.Reasons, v.checkCurrency(row.Currency)...)
	verdict.Reasons = append(verdict.Reasons, v.checkAccounts(row)...)
	verdict.Reasons = append(verdict.Reasons, v.checkType(row.TransactionType)...)
	if !ts.IsZero() {
		verdict.Reasons = append(verdict.Reasons, v.checkFrequency(row, ts)...)
	}

	return verdict
}

func (v *TransactionValidator) checkTimestamp(raw string) (time.Time, []string) {
	if raw == "" {
		return time.Time{}, []string{ReasonTimestampRequired}
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, []string{ReasonInvalidTimestamp}
	}
	return ts, nil
}

func (v *TransactionValidator) checkAmount(row domain.TransactionRow) []string {
	var reasons []string
	if row.Amount.LessThan(v.cfg.MinAmount) {
		reasons = append(reasons, ReasonBelowMinimumAmount)
	}
	if row.AccountType == "private" {
		if row.Amount.GreaterThan(v.cfg.MaxPrivateAmount) {
			reasons = append(reasons, ReasonOverPrivateCeiling)
		}
	} else {
		if row.Amount.GreaterThan(v.cfg.MaxBusinessAmount) {
			reasons = append(reasons, ReasonOverBusinessCeiling)
		}
	}
	if v.isInternational(row) && row.Amount.GreaterThan(v.cfg.InternationalLimit) {
		reasons = append(reasons, ReasonOverInternationalLimit)
	}
	return reasons
}

// isInternational reports whether sender and receiver sit in different
// countries. An empty country defaults to the home country.
func (v *TransactionValidator) isInternational(row domain.TransactionRow) bool {
	sender := row.SenderCountry
	if sender == "" {
		sender = v.cfg.HomeCountry
	}
	receiver := row.ReceiverCountry
	if receiver == "" {
		receiver = v.cfg.HomeCountry
	}
	return sender != receiver
}

func (v *TransactionValidator) checkCurrency(currency string) []string {
	if currency == "" {
		return []string{ReasonCurrencyRequired}
	}
	if !v.cfg.SupportsCurrency(currency) {
		return []string{ReasonUnsupportedCurrency}
	}
	return nil
}

func (v *TransactionValidator) checkAccounts(row domain.TransactionRow) []string {
	if row.SenderAccount == "" || row.ReceiverAccount == "" {
		return []string{ReasonAccountsRequired}
	}
	var reasons []string
	if !MatchAccountNumber(row.SenderAccount) {
		reasons = append(reasons, ReasonInvalidSenderAccount)
	}
	if !MatchAccountNumber(row.ReceiverAccount) {
		reasons = append(reasons, ReasonInvalidReceiverAccount)
	}
	return reasons
}

func (v *TransactionValidator) checkType(raw string) []string {
	if raw == "" {
		return []string{ReasonTransactionTypeRequired}
	}
	if _, err := normalize.TransactionType(raw); err != nil {
		return []string{ReasonUnknownTransactionType}
	}
	return nil
}

func (v *TransactionValidator) checkFrequency(row domain.TransactionRow, ts time.Time) []string {
	if row.SenderAccount == "" {
		return nil
	}
	var reasons []string
	limit := v.cfg.MaxDailyBusiness
	if row.AccountType == "private" {
		limit = v.cfg.MaxDailyPrivate
	}
	if v.lookback.DailyCount(row.SenderAccount, ts) >= limit {
		reasons = append(reasons, ReasonTooManyDailyTransfers)
	}
	if last, ok := v.lookback.LastTransfer(row.SenderAccount, ts); ok {
		if ts.Sub(last) < v.cfg.MinTimeBetween {
			reasons = append(reasons, ReasonTransfersTooFrequent)
		}
	}
	return reasons
}

// ParseTimestamp parses a source timestamp in any supported layout.
func ParseTimestamp(raw string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var ts time.Time
		ts, err = time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}
