package workflow

import (
	"reflect"
	"testing"
	"time"

	"github.com/lucyvers/bankflow/internal/domain"
)

func TestNormalizeCustomers(t *testing.T) {
	rows := []domain.CustomerRow{
		{
			Line:         2,
			Personnummer: "811228-9874",
			Name:         "Anna Svensson",
			Phone:        "070-123 45 67",
			Address:      "Storgatan 1, 12345 Stockholm",
			BankAccount:  "SE8902ABCD12345678901234",
		},
		{
			// Repeated identity, first row's fields win.
			Line:         3,
			Personnummer: "811228-9874",
			Name:         "Anna Svenson",
			Phone:        "070-123 45 67",
			Address:      "Annan Gata 9, 99999 Umeå",
			BankAccount:  "SE8902ABCD12345678901234",
		},
	}

	out, failed := NormalizeCustomers(rows)
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if len(out) != 1 {
		t.Fatalf("got %d customers, want 1 after dedup", len(out))
	}

	c := out[0]
	if c.Name != "Anna Svensson" {
		t.Errorf("name = %q, first occurrence should win", c.Name)
	}
	if c.Street != "Storgatan 1" || c.PostalCode != "12345" || c.City != "Stockholm" {
		t.Errorf("address split = %q/%q/%q", c.Street, c.PostalCode, c.City)
	}
	if c.Phone != "+46(70)123 45 67" {
		t.Errorf("phone = %q, want the persisted rendering", c.Phone)
	}
	if len(c.AccountNumbers) != 1 {
		t.Errorf("accounts = %v, a repeated account must not be recorded twice", c.AccountNumbers)
	}
}

func TestNormalizeCustomers_KeepsEveryAccount(t *testing.T) {
	rows := []domain.CustomerRow{
		{
			Line:         2,
			Personnummer: "811228-9874",
			Name:         "Anna Svensson",
			Phone:        "070-123 45 67",
			Address:      "Storgatan 1, 12345 Stockholm",
			BankAccount:  "SE8902ABCD12345678901234",
		},
		{
			// Same identity, second account.
			Line:         3,
			Personnummer: "811228-9874",
			Name:         "Anna Svensson",
			Phone:        "070-123 45 67",
			Address:      "Storgatan 1, 12345 Stockholm",
			BankAccount:  "SE8902IJKL11112222333344",
		},
	}

	out, failed := NormalizeCustomers(rows)
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if len(out) != 1 {
		t.Fatalf("got %d customers, want 1", len(out))
	}

	want := []string{"SE8902ABCD12345678901234", "SE8902IJKL11112222333344"}
	if !reflect.DeepEqual(out[0].AccountNumbers, want) {
		t.Errorf("accounts = %v, want %v", out[0].AccountNumbers, want)
	}
}

func TestNormalizeCustomers_ReportsUnsplittableAddress(t *testing.T) {
	rows := []domain.CustomerRow{{
		Line:         2,
		Personnummer: "811228-9874",
		Name:         "Anna Svensson",
		Phone:        "070-123 45 67",
		Address:      "Storgatan 1 Stockholm",
		BankAccount:  "SE8902ABCD12345678901234",
	}}

	out, failed := NormalizeCustomers(rows)
	if len(out) != 0 {
		t.Errorf("unexpected normalized customers: %v", out)
	}
	if len(failed) != 1 || failed[0].Line != 2 {
		t.Fatalf("failed = %v, want one verdict for line 2", failed)
	}
}

func TestNormalizeTransactions(t *testing.T) {
	rows := []domain.TransactionRow{
		{Line: 2, TransactionID: "tx-1", Timestamp: "2026-05-01 10:00:00"},
		{Line: 3, TransactionID: "tx-2", Timestamp: "not a time"},
	}

	out, failed := NormalizeTransactions(rows)
	if len(out) != 1 {
		t.Fatalf("got %d transactions, want 1", len(out))
	}
	want := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	if !out[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", out[0].Timestamp, want)
	}
	if len(failed) != 1 || failed[0].Key != "tx-2" {
		t.Errorf("failed = %v, want the unparseable row", failed)
	}
}
