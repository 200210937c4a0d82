package validate

import (
	"testing"
	"time"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/domain"
)

func newTestCustomerValidator() *CustomerValidator {
	cfg := config.Default()
	cfg.PivotYear = 2026
	v := NewCustomerValidator(&cfg)
	v.now = func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return v
}

func validCustomerRow() domain.CustomerRow {
	return domain.CustomerRow{
		Personnummer: "811228-9874",
		Name:         "Anna Svensson",
		Phone:        "070-123 45 67",
		Address:      "Storgatan 1, 12345 Stockholm",
		BankAccount:  "SE8902ABCD12345678901234",
		Country:      "Sweden",
	}
}

func hasReason(t *testing.T, verdict domain.Verdict, want string) {
	t.Helper()
	for _, r := range verdict.Reasons {
		if r == want {
			return
		}
	}
	t.Errorf("verdict %v missing reason %q", verdict.Reasons, want)
}

func TestCustomerValidator_ValidRow(t *testing.T) {
	v := newTestCustomerValidator()
	verdict := v.Validate(1, validCustomerRow())
	if !verdict.Valid() {
		t.Fatalf("expected valid verdict, got reasons %v", verdict.Reasons)
	}
	if verdict.Key != "811228-9874" {
		t.Errorf("verdict key = %q, want the personnummer", verdict.Key)
	}
}

func TestCustomerValidator_CheckDigit(t *testing.T) {
	v := newTestCustomerValidator()

	row := validCustomerRow()
	row.Personnummer = "811228-9873"
	hasReason(t, v.Validate(1, row), ReasonInvalidCheckDigit)

	row.Personnummer = "8112289874"
	hasReason(t, v.Validate(1, row), ReasonInvalidPersonnummerFormat)

	row.Personnummer = "811328-0005"
	hasReason(t, v.Validate(1, row), ReasonInvalidBirthDate)
}

func TestCustomerValidator_GuardianRules(t *testing.T) {
	v := newTestCustomerValidator()

	minor := validCustomerRow()
	minor.Personnummer = "101228-1232"
	hasReason(t, v.Validate(1, minor), ReasonMissingGuardianInfo)

	minor.GuardianInfo = "Name: Eva Svensson, Relation: mother, Personnummer: 800101-1231"
	if verdict := v.Validate(1, minor); !verdict.Valid() {
		t.Errorf("minor with valid guardian should pass, got %v", verdict.Reasons)
	}

	minor.GuardianInfo = "Name: Eva Svensson, Relation: neighbor, Personnummer: 800101-1231"
	hasReason(t, v.Validate(1, minor), ReasonInvalidGuardianInfo)

	minor.GuardianInfo = "Eva Svensson, mother"
	hasReason(t, v.Validate(1, minor), ReasonInvalidGuardianInfo)
}

func TestCustomerValidator_AgeRange(t *testing.T) {
	v := newTestCustomerValidator()

	row := validCustomerRow()
	row.Personnummer = "130501-2344"
	row.GuardianInfo = "Name: Eva Svensson, Relation: parent, Personnummer: 800101-1231"
	hasReason(t, v.Validate(1, row), ReasonAgeOutOfRange)
}

func TestCustomerValidator_AddressAndContact(t *testing.T) {
	v := newTestCustomerValidator()

	tests := []struct {
		name   string
		mutate func(*domain.CustomerRow)
		want   string
	}{
		{
			name:   "address without comma",
			mutate: func(r *domain.CustomerRow) { r.Address = "Storgatan 1 12345 Stockholm" },
			want:   ReasonAddressMissingComma,
		},
		{
			name:   "address without postal code",
			mutate: func(r *domain.CustomerRow) { r.Address = "Storgatan 1, Stockholm" },
			want:   ReasonMissingPostalCode,
		},
		{
			name:   "address without city",
			mutate: func(r *domain.CustomerRow) { r.Address = "Storgatan 1, 12345" },
			want:   ReasonMissingCity,
		},
		{
			name:   "postal code after the city",
			mutate: func(r *domain.CustomerRow) { r.Address = "Storgatan 1, Stockholm 12345" },
			want:   ReasonMissingPostalCode,
		},
		{
			name:   "missing country",
			mutate: func(r *domain.CustomerRow) { r.Country = "" },
			want:   ReasonMissingCountry,
		},
		{
			name:   "phone that cannot be standardized",
			mutate: func(r *domain.CustomerRow) { r.Phone = "12" },
			want:   ReasonInvalidPhone,
		},
		{
			name:   "malformed account number",
			mutate: func(r *domain.CustomerRow) { r.BankAccount = "SE8902abcd12345678901234" },
			want:   ReasonInvalidAccountNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validCustomerRow()
			tt.mutate(&row)
			hasReason(t, v.Validate(1, row), tt.want)
		})
	}
}

func TestCustomerValidator_CollectsAllViolations(t *testing.T) {
	v := newTestCustomerValidator()

	row := validCustomerRow()
	row.Phone = "12"
	row.BankAccount = "not-an-account"
	row.Country = ""

	verdict := v.Validate(1, row)
	hasReason(t, verdict, ReasonInvalidPhone)
	hasReason(t, verdict, ReasonInvalidAccountNumber)
	hasReason(t, verdict, ReasonMissingCountry)
	if len(verdict.Reasons) != 3 {
		t.Errorf("expected exactly 3 reasons, got %v", verdict.Reasons)
	}
}
