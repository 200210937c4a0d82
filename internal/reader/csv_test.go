package reader

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const customerCSV = `Customer,Address,Phone,Personnummer,BankAccount,Country,GuardianInfo
Anna Svensson,"Storgatan 1, 12345 Stockholm",070-123 45 67,811228-9874,SE8902ABCD12345678901234,Sweden,
Erik Svensson,"Lillgatan 2, 54321 Malmö",070-765 43 21,101228-1232,SE8902EFGH98765432109876,Sweden,"Name: Eva Svensson, Relation: mother, Personnummer: 800101-1231"
,"Vägen 3, 11111 Lund",070-111 22 33,,SE8902IJKL11111111111111,Sweden,
`

func TestParseCustomers(t *testing.T) {
	rows, rowErrs, err := ParseCustomers(strings.NewReader(customerCSV))
	if err != nil {
		t.Fatalf("ParseCustomers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].Name != "Anna Svensson" || rows[0].Personnummer != "811228-9874" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].GuardianInfo == "" {
		t.Error("guardian info should survive parsing")
	}

	if len(rowErrs) != 1 {
		t.Fatalf("got %d row errors, want 1: %v", len(rowErrs), rowErrs)
	}
	if rowErrs[0].Line != 4 {
		t.Errorf("row error line = %d, want 4", rowErrs[0].Line)
	}
	joined := strings.Join(rowErrs[0].Reasons, "; ")
	if !strings.Contains(joined, "Missing required field: Customer") {
		t.Errorf("reasons %q missing the Customer field message", joined)
	}
	if !strings.Contains(joined, "Missing required field: Personnummer") {
		t.Errorf("reasons %q missing the Personnummer field message", joined)
	}
}

func TestParseCustomers_MissingColumn(t *testing.T) {
	csv := "Customer,Address,Phone,BankAccount\nAnna,Addr,070,SE8902\n"
	if _, _, err := ParseCustomers(strings.NewReader(csv)); err == nil {
		t.Fatal("expected an error for a missing Personnummer column")
	}
}

const transactionCSV = `transaction_id,timestamp,amount,currency,sender_account,receiver_account,sender_country,sender_municipality,receiver_country,receiver_municipality,transaction_type,account_type,notes
tx-1,2026-05-01 10:00:00,100.50,SEK,SE8902ABCD12345678901234,SE8902EFGH98765432109876,Sweden,Stockholm,Sweden,Malmö,incoming,private,rent
tx-2,2026-05-01 11:00:00,not-a-number,SEK,SE8902ABCD12345678901234,SE8902EFGH98765432109876,,,,,outgoing,private,
tx-3,2026-05-01 12:00:00,,SEK,SE8902ABCD12345678901234,SE8902EFGH98765432109876,,,,,outgoing,private,
`

func TestParseTransactions(t *testing.T) {
	rows, rowErrs, err := ParseTransactions(strings.NewReader(transactionCSV))
	if err != nil {
		t.Fatalf("ParseTransactions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	want := decimal.RequireFromString("100.50")
	if !rows[0].Amount.Equal(want) {
		t.Errorf("amount = %s, want %s", rows[0].Amount, want)
	}
	if rows[0].SenderMunicipality != "Stockholm" {
		t.Errorf("sender municipality = %q, want Stockholm", rows[0].SenderMunicipality)
	}

	if len(rowErrs) != 2 {
		t.Fatalf("got %d row errors, want 2: %v", len(rowErrs), rowErrs)
	}
	if got := strings.Join(rowErrs[0].Reasons, "; "); !strings.Contains(got, "Invalid amount format") {
		t.Errorf("line 3 reasons = %q, want an invalid-amount message", got)
	}
	if got := strings.Join(rowErrs[1].Reasons, "; "); !strings.Contains(got, "Missing required field: amount") {
		t.Errorf("line 4 reasons = %q, want a missing-amount message", got)
	}
}

func TestSplitGCSURI(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		object string
		ok     bool
	}{
		{"gs://batches/2026/customers.csv", "batches", "2026/customers.csv", true},
		{"gs://batches", "", "", false},
		{"/var/data/customers.csv", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		bucket, object, ok := SplitGCSURI(tt.uri)
		if bucket != tt.bucket || object != tt.object || ok != tt.ok {
			t.Errorf("SplitGCSURI(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.uri, bucket, object, ok, tt.bucket, tt.object, tt.ok)
		}
	}
}
