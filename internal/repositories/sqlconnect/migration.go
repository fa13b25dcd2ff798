package sqlconnect

import (
	"database/sql"

	"paycheck_pilot/pkg/utils"
)

// The unique keys below are load-bearing: the import path relies on
// duplicate-key conflicts to route records onto its update path, and the
// planned-payment guard relies on the primary key. Category uniqueness
// goes through a generated owner_scope column because MySQL lets
// duplicate NULLs into a plain unique index, and global categories
// store a NULL owner.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(16) NOT NULL,
		currency CHAR(3) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_accounts_owner (owner_id)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NULL,
		name VARCHAR(100) NOT NULL,
		kind VARCHAR(16) NOT NULL,
		owner_scope BIGINT AS (COALESCE(owner_id, 0)) STORED,
		UNIQUE KEY uq_categories_owner_name (owner_scope, name)
	)`,
	`CREATE TABLE IF NOT EXISTS pay_periods (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NOT NULL,
		pay_date DATE NOT NULL,
		gross_income_cents BIGINT NOT NULL DEFAULT 0,
		note VARCHAR(255) NOT NULL DEFAULT '',
		UNIQUE KEY uq_pay_periods_owner_date (owner_id, pay_date)
	)`,
	`CREATE TABLE IF NOT EXISTS planned_payments (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NOT NULL,
		account_id BIGINT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		amount_cents BIGINT NOT NULL,
		due_date DATE NOT NULL,
		auto_debit BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(16) NOT NULL DEFAULT 'planned',
		linked_txn_id BIGINT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_planned_owner_due (owner_id, status, due_date)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NOT NULL,
		pay_period_id BIGINT NULL,
		account_id BIGINT NOT NULL,
		category_id BIGINT NULL,
		type VARCHAR(16) NOT NULL,
		amount_cents BIGINT NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		txn_date DATE NOT NULL,
		planned_payment_id BIGINT NULL,
		counterparty_user_id BIGINT NULL,
		reference VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_txns_owner_date (owner_id, txn_date),
		INDEX idx_txns_period (pay_period_id)
	)`,
	`CREATE TABLE IF NOT EXISTS saving_entries (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NOT NULL,
		pay_period_id BIGINT NULL,
		account_id BIGINT NOT NULL,
		amount_cents BIGINT NOT NULL,
		entry_date DATE NOT NULL,
		note VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_saving_entries_owner (owner_id),
		INDEX idx_saving_entries_period (pay_period_id)
	)`,
	`CREATE TABLE IF NOT EXISTS saving_goals (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		owner_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		target_amount_cents BIGINT NOT NULL,
		target_date DATE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_saving_goals_owner (owner_id)
	)`,
	`CREATE TABLE IF NOT EXISTS saving_entry_goals (
		saving_entry_id BIGINT NOT NULL,
		goal_id BIGINT NOT NULL,
		PRIMARY KEY (saving_entry_id, goal_id)
	)`,
}

func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return utils.ErrorHandler(err, "schema migration failed")
		}
	}
	return nil
}
