package database

// bootstrap.go seeds the fixed actors of the ticketing ledger: the owner
// account, the treasury (the service's own ledger identity that sells and
// redeems tickets), the issuer grants for both, the initial ticket price and
// the initial token supply minted to the owner.  Every step is idempotent so
// restarts are safe.

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/showtix/showtix/internal/config"
	"github.com/showtix/showtix/internal/utils"
)

// Setting names used by the bootstrap and the runtime.
const (
	SettingTicketPrice = "ticket_price"
	SettingTreasuryID  = "treasury_account_id"
)

// Bootstrap ensures the owner and treasury accounts exist and are wired with
// the issuer role, and that the ticket price setting is present.  It returns
// the treasury account id for the caller to hand to the ticket handlers.
func Bootstrap(ctx context.Context, db *sql.DB, cfg config.Config) (uint64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ownerID, created, err := ensureAccount(ctx, tx, cfg.OwnerEmail, cfg.OwnerPassword, "OWNER", cfg.BcryptCost)
	if err != nil {
		return 0, fmt.Errorf("ensure owner: %w", err)
	}
	if err := ensureIssuer(ctx, tx, ownerID, ownerID); err != nil {
		return 0, fmt.Errorf("grant issuer to owner: %w", err)
	}
	if created {
		// First boot only: mint the initial supply to the owner.
		supply, err := decimal.NewFromString(cfg.InitialSupply)
		if err != nil {
			return 0, fmt.Errorf("invalid INITIAL_SUPPLY: %w", err)
		}
		if supply.IsPositive() {
			const q = `INSERT INTO balances (account_id, amount) VALUES (?, ?)
			           ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`
			if _, err := tx.ExecContext(ctx, q, ownerID, supply); err != nil {
				return 0, fmt.Errorf("mint initial supply: %w", err)
			}
		}
	}

	treasuryID, err := ensureTreasury(ctx, tx, cfg.BcryptCost)
	if err != nil {
		return 0, fmt.Errorf("ensure treasury: %w", err)
	}
	if err := ensureIssuer(ctx, tx, treasuryID, ownerID); err != nil {
		return 0, fmt.Errorf("grant issuer to treasury: %w", err)
	}

	price, err := decimal.NewFromString(cfg.TicketPrice)
	if err != nil || !price.IsPositive() {
		return 0, fmt.Errorf("invalid TICKET_PRICE: %q", cfg.TicketPrice)
	}
	const seedPrice = `INSERT IGNORE INTO settings (name, value) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, seedPrice, SettingTicketPrice, price.String()); err != nil {
		return 0, fmt.Errorf("seed ticket price: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return treasuryID, nil
}

// ensureAccount returns the id of the account with the given email, creating
// it when missing.  The created flag reports whether an insert happened.
func ensureAccount(ctx context.Context, tx *sql.Tx, email, password, role string, cost int) (uint64, bool, error) {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE email = ? LIMIT 1`, email).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, false, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash, role) VALUES (?, ?, ?)`,
		email, hash, role)
	if err != nil {
		return 0, false, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return uint64(newID), true, nil
}

// ensureTreasury creates the non-interactive treasury account on first boot
// and records its id in the settings table.  The treasury password is random
// and discarded: nobody logs in as the treasury, it only acts through the
// purchase and redemption paths.
func ensureTreasury(ctx context.Context, tx *sql.Tx, cost int) (uint64, error) {
	var stored string
	err := tx.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ? LIMIT 1`, SettingTreasuryID).Scan(&stored)
	if err == nil {
		var id uint64
		if _, perr := fmt.Sscanf(stored, "%d", &id); perr != nil {
			return 0, fmt.Errorf("corrupt %s setting: %q", SettingTreasuryID, stored)
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return 0, err
	}
	id, _, err := ensureAccount(ctx, tx, "treasury@showtix.local", hex.EncodeToString(buf), "SERVICE", cost)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES (?, ?)`,
		SettingTreasuryID, fmt.Sprintf("%d", id)); err != nil {
		return 0, err
	}
	return id, nil
}

// ensureIssuer grants the issuer role when not already present.
func ensureIssuer(ctx context.Context, tx *sql.Tx, accountID, grantedBy uint64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO issuers (account_id, granted_by) VALUES (?, ?)`,
		accountID, grantedBy)
	return err
}
