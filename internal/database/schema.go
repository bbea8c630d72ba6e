package database

// schema.go creates the tables the service depends on.  Statements are
// idempotent (CREATE TABLE IF NOT EXISTS) so the service can be restarted
// against an existing database without a separate migration step.  Monetary
// and token amounts are stored as DECIMAL(38,18): eighteen fractional digits
// is the smallest unit of the ticket currency, and fixed-point columns keep
// the arithmetic exact.

import (
	"context"
	"database/sql"
)

// ddl lists every table in dependency order.  shows.id is AUTO_INCREMENT and
// therefore starts at 1; id 0 is never assigned and lookups for it fail.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          VARCHAR(16)     NOT NULL DEFAULT 'CUSTOMER',
		is_active     TINYINT(1)      NOT NULL DEFAULT 1,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		account_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_account FOREIGN KEY (account_id) REFERENCES accounts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS issuers (
		account_id BIGINT UNSIGNED NOT NULL,
		granted_by BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id),
		CONSTRAINT fk_issuers_account FOREIGN KEY (account_id) REFERENCES accounts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS balances (
		account_id BIGINT UNSIGNED NOT NULL,
		amount     DECIMAL(38,18)  NOT NULL DEFAULT 0,
		updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id),
		CONSTRAINT fk_balances_account FOREIGN KEY (account_id) REFERENCES accounts (id),
		CONSTRAINT chk_balances_non_negative CHECK (amount >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS wallets (
		account_id BIGINT UNSIGNED NOT NULL,
		amount     DECIMAL(38,18)  NOT NULL DEFAULT 0,
		updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id),
		CONSTRAINT fk_wallets_account FOREIGN KEY (account_id) REFERENCES accounts (id),
		CONSTRAINT chk_wallets_non_negative CHECK (amount >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS shows (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name             VARCHAR(255)    NOT NULL,
		starts_at        DATETIME        NOT NULL,
		duration_minutes INT UNSIGNED    NOT NULL,
		created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS holdings (
		account_id   BIGINT UNSIGNED NOT NULL,
		show_id      BIGINT UNSIGNED NOT NULL,
		ticket_count BIGINT UNSIGNED NOT NULL DEFAULT 0,
		consumed     TINYINT(1)      NOT NULL DEFAULT 0,
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id, show_id),
		CONSTRAINT fk_holdings_account FOREIGN KEY (account_id) REFERENCES accounts (id),
		CONSTRAINT fk_holdings_show FOREIGN KEY (show_id) REFERENCES shows (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS settings (
		name  VARCHAR(64)  NOT NULL,
		value VARCHAR(255) NOT NULL,
		PRIMARY KEY (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema applies the DDL above.  Each statement is executed on its own;
// MySQL DDL is not transactional so a partial failure is surfaced directly.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
