// This file defines persistence for the issuer role registry. The issuer
// role is the only capability allowed to mint or burn ledger units. Grants
// and revokes are owner-only operations (enforced at the handler layer);
// the registry itself only records which account ids currently hold the
// role. The ledger consults this table inside the same transaction as the
// supply change, so a revoke takes effect for every later call.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// IssuerRepo manages the issuers table.
type IssuerRepo struct {
	db *sql.DB
}

// NewIssuerRepo constructs an IssuerRepo with the given DB handle.
func NewIssuerRepo(db *sql.DB) *IssuerRepo {
	return &IssuerRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *IssuerRepo) DB() *sql.DB {
	return r.db
}

// Grant gives the issuer role to an account. Granting twice is a no-op.
// Returns ErrAccountNotFound when the target account does not exist.
func (r *IssuerRepo) Grant(ctx context.Context, accountID, grantedBy uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = ? LIMIT 1`, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT IGNORE INTO issuers (account_id, granted_by) VALUES (?, ?)`,
		accountID, grantedBy)
	return err
}

// Revoke removes the issuer role from an account. Revoking an account
// that never held the role is a no-op.
func (r *IssuerRepo) Revoke(ctx context.Context, accountID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM issuers WHERE account_id = ?`, accountID)
	return err
}

// HasRole reports whether the account currently holds the issuer role.
func (r *IssuerRepo) HasRole(ctx context.Context, accountID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM issuers WHERE account_id = ? LIMIT 1`, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasRoleTx is like HasRole but participates in the caller's transaction.
// The ledger uses it so a mint and its authorization check are atomic.
func (r *IssuerRepo) HasRoleTx(ctx context.Context, tx *sql.Tx, accountID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM issuers WHERE account_id = ? LIMIT 1`, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
