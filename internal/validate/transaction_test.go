package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/domain"
)

func validTransactionRow() domain.TransactionRow {
	return domain.TransactionRow{
		TransactionID:   "9f1c2d3e",
		Timestamp:       "2026-05-01 10:00:00",
		Amount:          decimal.NewFromInt(100),
		Currency:        "SEK",
		SenderAccount:   "SE8902ABCD12345678901234",
		ReceiverAccount: "SE8902EFGH98765432109876",
		TransactionType: "incoming",
		AccountType:     "private",
	}
}

func newTestTransactionValidator(lookback LookbackProvider) *TransactionValidator {
	cfg := config.Default()
	return NewTransactionValidator(&cfg, lookback)
}

func TestTransactionValidator_ValidRow(t *testing.T) {
	v := newTestTransactionValidator(nil)
	verdict := v.Validate(1, validTransactionRow())
	if !verdict.Valid() {
		t.Fatalf("expected valid verdict, got reasons %v", verdict.Reasons)
	}
	if verdict.Key != "9f1c2d3e" {
		t.Errorf("verdict key = %q, want the transaction id", verdict.Key)
	}
}

func TestTransactionValidator_AmountLimits(t *testing.T) {
	v := newTestTransactionValidator(nil)

	tests := []struct {
		name   string
		mutate func(*domain.TransactionRow)
		want   string
	}{
		{
			name:   "negative amount",
			mutate: func(r *domain.TransactionRow) { r.Amount = decimal.NewFromInt(-5) },
			want:   ReasonBelowMinimumAmount,
		},
		{
			name:   "zero amount",
			mutate: func(r *domain.TransactionRow) { r.Amount = decimal.Zero },
			want:   ReasonBelowMinimumAmount,
		},
		{
			name: "over private ceiling",
			mutate: func(r *domain.TransactionRow) {
				r.Amount = decimal.NewFromInt(60000)
			},
			want: ReasonOverPrivateCeiling,
		},
		{
			name: "over business ceiling",
			mutate: func(r *domain.TransactionRow) {
				r.Amount = decimal.NewFromInt(600000)
				r.AccountType = "business"
			},
			want: ReasonOverBusinessCeiling,
		},
		{
			name: "over international limit",
			mutate: func(r *domain.TransactionRow) {
				r.Amount = decimal.NewFromInt(20000)
				r.ReceiverCountry = "Norway"
			},
			want: ReasonOverInternationalLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validTransactionRow()
			tt.mutate(&row)
			hasReason(t, v.Validate(1, row), tt.want)
		})
	}
}

func TestTransactionValidator_BusinessCeilingAllowsLargeAmounts(t *testing.T) {
	v := newTestTransactionValidator(nil)

	row := validTransactionRow()
	row.Amount = decimal.NewFromInt(60000)
	row.AccountType = "business"
	if verdict := v.Validate(1, row); !verdict.Valid() {
		t.Errorf("60000 on a business account should pass, got %v", verdict.Reasons)
	}
}

func TestTransactionValidator_DomesticLargeTransferIgnoresInternationalLimit(t *testing.T) {
	v := newTestTransactionValidator(nil)

	row := validTransactionRow()
	row.Amount = decimal.NewFromInt(20000)
	row.AccountType = "business"
	row.SenderCountry = "Sweden"
	// Empty receiver country defaults to the home country.
	if verdict := v.Validate(1, row); !verdict.Valid() {
		t.Errorf("domestic transfer should not hit the international limit, got %v", verdict.Reasons)
	}
}

func TestTransactionValidator_FieldRules(t *testing.T) {
	v := newTestTransactionValidator(nil)

	tests := []struct {
		name   string
		mutate func(*domain.TransactionRow)
		want   string
	}{
		{
			name:   "missing currency",
			mutate: func(r *domain.TransactionRow) { r.Currency = "" },
			want:   ReasonCurrencyRequired,
		},
		{
			name:   "unsupported currency",
			mutate: func(r *domain.TransactionRow) { r.Currency = "CHF" },
			want:   ReasonUnsupportedCurrency,
		},
		{
			name:   "missing sender account",
			mutate: func(r *domain.TransactionRow) { r.SenderAccount = "" },
			want:   ReasonAccountsRequired,
		},
		{
			name:   "malformed sender account",
			mutate: func(r *domain.TransactionRow) { r.SenderAccount = "SE8902abcd12345678901234" },
			want:   ReasonInvalidSenderAccount,
		},
		{
			name:   "malformed receiver account",
			mutate: func(r *domain.TransactionRow) { r.ReceiverAccount = "XX123" },
			want:   ReasonInvalidReceiverAccount,
		},
		{
			name:   "missing type",
			mutate: func(r *domain.TransactionRow) { r.TransactionType = "" },
			want:   ReasonTransactionTypeRequired,
		},
		{
			name:   "unknown type",
			mutate: func(r *domain.TransactionRow) { r.TransactionType = "wire" },
			want:   ReasonUnknownTransactionType,
		},
		{
			name:   "missing timestamp",
			mutate: func(r *domain.TransactionRow) { r.Timestamp = "" },
			want:   ReasonTimestampRequired,
		},
		{
			name:   "unparseable timestamp",
			mutate: func(r *domain.TransactionRow) { r.Timestamp = "yesterday" },
			want:   ReasonInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validTransactionRow()
			tt.mutate(&row)
			hasReason(t, v.Validate(1, row), tt.want)
		})
	}
}

type fakeLookback struct {
	count int
	last  time.Time
	has   bool
}

func (f fakeLookback) DailyCount(string, time.Time) int { return f.count }

func (f fakeLookback) LastTransfer(string, time.Time) (time.Time, bool) { return f.last, f.has }

func TestTransactionValidator_FrequencyRules(t *testing.T) {
	ts, err := ParseTimestamp("2026-05-01 10:00:00")
	if err != nil {
		t.Fatal(err)
	}

	v := newTestTransactionValidator(fakeLookback{count: 10})
	hasReason(t, v.Validate(1, validTransactionRow()), ReasonTooManyDailyTransfers)

	v = newTestTransactionValidator(fakeLookback{last: ts.Add(-30 * time.Second), has: true})
	hasReason(t, v.Validate(1, validTransactionRow()), ReasonTransfersTooFrequent)

	v = newTestTransactionValidator(fakeLookback{count: 9, last: ts.Add(-2 * time.Minute), has: true})
	if verdict := v.Validate(1, validTransactionRow()); !verdict.Valid() {
		t.Errorf("under both frequency limits should pass, got %v", verdict.Reasons)
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, raw := range []string{
		"2026-05-01T10:00:00Z",
		"2026-05-01 10:00:00",
		"2026-05-01T10:00:00",
		"2026-05-01",
	} {
		if _, err := ParseTimestamp(raw); err != nil {
			t.Errorf("ParseTimestamp(%q) unexpected error: %v", raw, err)
		}
	}
	if _, err := ParseTimestamp("01/05/2026"); err == nil {
		t.Error("expected an error for an unsupported layout")
	}
}
