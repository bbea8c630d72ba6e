// This file contains the funds wallet: the currency side of a purchase.
// A purchase debits the buyer's wallet for the full paid amount and refunds
// the change within the same transaction, so "mint and refund both or
// neither" holds structurally. Wallets reuse the DECIMAL(38,18) representation of
// the token ledger.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

// WalletRepo manages persistence for funds wallets.
type WalletRepo struct {
	db *sql.DB
}

// NewWalletRepo constructs a WalletRepo with the given DB handle.
func NewWalletRepo(db *sql.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// Balance returns the funds balance of an account, zero when the wallet was
// never funded.
func (r *WalletRepo) Balance(ctx context.Context, accountID uint64) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT amount FROM wallets WHERE account_id = ? LIMIT 1`, accountID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// Deposit adds funds to an account's wallet outside of any purchase flow.
// It stands in for the hosting environment's value transfer.
func (r *WalletRepo) Deposit(ctx context.Context, accountID uint64, amount decimal.Decimal) error {
	const q = `INSERT INTO wallets (account_id, amount) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`
	_, err := r.db.ExecContext(ctx, q, accountID, amount)
	return err
}

// CreditTx adds funds within the caller's transaction (refunds, proceeds).
func (r *WalletRepo) CreditTx(ctx context.Context, tx *sql.Tx, accountID uint64, amount decimal.Decimal) error {
	const q = `INSERT INTO wallets (account_id, amount) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`
	_, err := tx.ExecContext(ctx, q, accountID, amount)
	return err
}

// DebitTx removes funds within the caller's transaction. Returns
// ErrInsufficientBalance when the wallet holds less than `amount`.
func (r *WalletRepo) DebitTx(ctx context.Context, tx *sql.Tx, accountID uint64, amount decimal.Decimal) error {
	const q = `UPDATE wallets SET amount = amount - ? WHERE account_id = ? AND amount >= ?`
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
