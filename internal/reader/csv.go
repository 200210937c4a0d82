package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lucyvers/bankflow/internal/domain"
)

var validate = validator.New()

// RowError describes a source row that could not be turned into a typed
// record. Lines count from 1 including the header.
type RowError struct {
	Line    int
	Reasons []string
}

// customerFieldColumns maps CustomerRow struct fields back to source
// column names for error messages.
var customerFieldColumns = map[string]string{
	"Personnummer": "Personnummer",
	"Name":         "Customer",
	"Phone":        "Phone",
	"Address":      "Address",
	"BankAccount":  "BankAccount",
}

var transactionFieldColumns = map[string]string{
	"TransactionID":   "transaction_id",
	"Timestamp":       "timestamp",
	"Currency":        "currency",
	"SenderAccount":   "sender_account",
	"ReceiverAccount": "receiver_account",
	"TransactionType": "transaction_type",
}

// ParseCustomers reads the customer flat file. Rows that fail boundary
// checks are reported as RowErrors and skipped; only unreadable input
// yields a non-nil error.
func ParseCustomers(r io.Reader) ([]domain.CustomerRow, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read customer header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"Customer", "Address", "Phone", "Personnummer", "BankAccount"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("customer file is missing column %q", required)
		}
	}

	var rows []domain.CustomerRow
	var rowErrs []RowError
	line := 1
	for {
		record, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rowErrs = append(rowErrs, RowError{Line: line, Reasons: []string{"Malformed CSV row"}})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read customer row: %w", err)
		}

		row := domain.CustomerRow{
			Line:         line,
			Personnummer: field(record, cols, "Personnummer"),
			Name:         field(record, cols, "Customer"),
			Phone:        field(record, cols, "Phone"),
			Address:      field(record, cols, "Address"),
			BankAccount:  field(record, cols, "BankAccount"),
			Country:      field(record, cols, "Country"),
			GuardianInfo: field(record, cols, "GuardianInfo"),
		}
		if reasons := requiredFieldReasons(row, customerFieldColumns); len(reasons) > 0 {
			rowErrs = append(rowErrs, RowError{Line: line, Reasons: reasons})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// ParseTransactions reads the transaction flat file.
func ParseTransactions(r io.Reader) ([]domain.TransactionRow, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read transaction header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{
		"transaction_id", "timestamp", "amount", "currency",
		"sender_account", "receiver_account", "transaction_type",
	} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("transaction file is missing column %q", required)
		}
	}

	var rows []domain.TransactionRow
	var rowErrs []RowError
	line := 1
	for {
		record, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rowErrs = append(rowErrs, RowError{Line: line, Reasons: []string{"Malformed CSV row"}})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read transaction row: %w", err)
		}

		row := domain.TransactionRow{
			Line:                 line,
			TransactionID:        field(record, cols, "transaction_id"),
			Timestamp:            field(record, cols, "timestamp"),
			Currency:             field(record, cols, "currency"),
			SenderAccount:        field(record, cols, "sender_account"),
			ReceiverAccount:      field(record, cols, "receiver_account"),
			SenderCountry:        field(record, cols, "sender_country"),
			SenderMunicipality:   field(record, cols, "sender_municipality"),
			ReceiverCountry:      field(record, cols, "receiver_country"),
			ReceiverMunicipality: field(record, cols, "receiver_municipality"),
			TransactionType:      field(record, cols, "transaction_type"),
			AccountType:          field(record, cols, "account_type"),
			Notes:                field(record, cols, "notes"),
		}

		reasons := requiredFieldReasons(row, transactionFieldColumns)
		switch rawAmount := field(record, cols, "amount"); {
		case strings.TrimSpace(rawAmount) == "":
			reasons = append(reasons, "Missing required field: amount")
		default:
			amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
			if err != nil {
				reasons = append(reasons, "Invalid amount format")
			} else {
				row.Amount = amount
			}
		}

		if len(reasons) > 0 {
			rowErrs = append(rowErrs, RowError{Line: line, Reasons: reasons})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// requiredFieldReasons runs struct-tag validation and renders each
// missing field against its source column name.
func requiredFieldReasons(row any, columns map[string]string) []string {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("Invalid row: %v", err)}
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		column := columns[fe.Field()]
		if column == "" {
			column = fe.Field()
		}
		reasons = append(reasons, fmt.Sprintf("Missing required field: %s", column))
	}
	return reasons
}
