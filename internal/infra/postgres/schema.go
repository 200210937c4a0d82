package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the four tables. Check constraints enforce
// the same formats the validators check, so a bug upstream cannot write
// malformed data. transaction_id is unique only together with the leg
// type: the two legs of one transfer share the id.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS banks (
		id     SERIAL PRIMARY KEY,
		name   VARCHAR(100) NOT NULL,
		banknr VARCHAR(10)  NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id            SERIAL PRIMARY KEY,
		bank_id       INTEGER      NOT NULL REFERENCES banks(id),
		personnummer  VARCHAR(11)  NOT NULL UNIQUE,
		name          VARCHAR(100) NOT NULL,
		phone         VARCHAR(20),
		address       VARCHAR(100),
		city          VARCHAR(50),
		postal_code   VARCHAR(5),
		guardian_info VARCHAR(100),
		CONSTRAINT valid_personnummer_format CHECK (personnummer ~ '^\d{6}-\d{4}$'),
		CONSTRAINT valid_postal_code_format  CHECK (postal_code ~ '^\d{5}$'),
		CONSTRAINT valid_phone_format        CHECK (phone ~ '^\+46\s*\(\d{1,4}\)\s*\d{3}\s*\d{2}\s*\d{2}$')
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id             SERIAL PRIMARY KEY,
		bank_id        INTEGER     NOT NULL REFERENCES banks(id),
		account_number VARCHAR(24) NOT NULL UNIQUE,
		customer_id    INTEGER     NOT NULL REFERENCES customers(id),
		type           VARCHAR(20) NOT NULL,
		created_at     TIMESTAMP   NOT NULL,
		CONSTRAINT valid_account_number_format CHECK (account_number ~ '^SE8902[A-Z]{4}\d{14}$')
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id                    SERIAL PRIMARY KEY,
		transaction_id        VARCHAR(36)   NOT NULL,
		account_id            INTEGER       NOT NULL REFERENCES accounts(id),
		amount                NUMERIC(10,2) NOT NULL,
		currency              VARCHAR(3)    NOT NULL,
		timestamp             TIMESTAMP     NOT NULL,
		sender_country        VARCHAR(50),
		sender_municipality   VARCHAR(50),
		receiver_country      VARCHAR(50),
		receiver_municipality VARCHAR(50),
		transaction_type      VARCHAR(20)   NOT NULL,
		notes                 VARCHAR(200),
		CONSTRAINT valid_transaction_type CHECK (transaction_type IN ('debit', 'credit')),
		CONSTRAINT uq_transaction_leg UNIQUE (transaction_id, transaction_type)
	)`,
}

// Migrate applies the schema. Statements are idempotent so running the
// migration twice is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
	}
	return nil
}
