// Package repository: this file contains the fungible token ledger. Balances
// are DECIMAL(38,18), eighteen fractional digits being the smallest unit of
// the ticket currency, and are scanned into shopspring decimals so arithmetic
// stays exact. Supply changes (mint, burn) verify the acting account's issuer
// role inside the same transaction as the balance update: authorization and
// effect commit or roll back together.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

// LedgerRepo manages persistence for token balances.
type LedgerRepo struct {
	db      *sql.DB
	issuers *IssuerRepo
}

// NewLedgerRepo constructs a LedgerRepo. The issuer repository is consulted
// for mint/burn authorization.
func NewLedgerRepo(db *sql.DB, issuers *IssuerRepo) *LedgerRepo {
	return &LedgerRepo{db: db, issuers: issuers}
}

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *LedgerRepo) DB() *sql.DB {
	return r.db
}

// BalanceOf returns the current token balance of an account, zero when the
// account has never held tokens.
func (r *LedgerRepo) BalanceOf(ctx context.Context, accountID uint64) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT amount FROM balances WHERE account_id = ? LIMIT 1`, accountID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// MintTx increases the balance of `to` by `amount` on behalf of `caller`.
// Returns ErrUnauthorized when the caller does not hold the issuer role.
// The amount must already be validated positive by the caller.
func (r *LedgerRepo) MintTx(ctx context.Context, tx *sql.Tx, caller, to uint64, amount decimal.Decimal) error {
	ok, err := r.issuers.HasRoleTx(ctx, tx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return r.creditTx(ctx, tx, to, amount)
}

// BurnTx decreases the balance of `from` by `amount` on behalf of `caller`.
// Returns ErrUnauthorized when the caller does not hold the issuer role and
// ErrInsufficientBalance when the account holds less than `amount`.
func (r *LedgerRepo) BurnTx(ctx context.Context, tx *sql.Tx, caller, from uint64, amount decimal.Decimal) error {
	ok, err := r.issuers.HasRoleTx(ctx, tx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return r.debitTx(ctx, tx, from, amount)
}

// TransferTx moves `amount` from one account to another. Any account may
// transfer its own balance; only the debit is guarded.
func (r *LedgerRepo) TransferTx(ctx context.Context, tx *sql.Tx, from, to uint64, amount decimal.Decimal) error {
	if err := r.debitTx(ctx, tx, from, amount); err != nil {
		return err
	}
	return r.creditTx(ctx, tx, to, amount)
}

// creditTx adds to a balance, creating the row on first touch.
func (r *LedgerRepo) creditTx(ctx context.Context, tx *sql.Tx, accountID uint64, amount decimal.Decimal) error {
	const q = `INSERT INTO balances (account_id, amount) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`
	_, err := tx.ExecContext(ctx, q, accountID, amount)
	return err
}

// debitTx subtracts from a balance. The WHERE guard keeps balances
// non-negative; zero rows affected means the funds were not there.
func (r *LedgerRepo) debitTx(ctx context.Context, tx *sql.Tx, accountID uint64, amount decimal.Decimal) error {
	const q = `UPDATE balances SET amount = amount - ? WHERE account_id = ? AND amount >= ?`
	res, err := tx.ExecContext(ctx, q, amount, accountID, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
