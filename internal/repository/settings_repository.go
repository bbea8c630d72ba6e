package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// ticketPriceSetting is the settings row holding the current ticket price.
const ticketPriceSetting = "ticket_price"

// SettingsRepo reads and writes the small set of runtime settings.
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

// TicketPrice returns the current ticket price in whole currency units.
func (r *SettingsRepo) TicketPrice(ctx context.Context) (decimal.Decimal, error) {
	var raw string
	err := r.DB.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE name=? LIMIT 1", ticketPriceSetting).Scan(&raw)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

// TicketPriceTx is like TicketPrice but reads inside the caller's
// transaction so a purchase prices every ticket at a single point in time.
func (r *SettingsRepo) TicketPriceTx(ctx context.Context, tx *sql.Tx) (decimal.Decimal, error) {
	var raw string
	err := tx.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE name=? LIMIT 1", ticketPriceSetting).Scan(&raw)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

// SetTicketPrice replaces the ticket price. The caller validates the value.
func (r *SettingsRepo) SetTicketPrice(ctx context.Context, price decimal.Decimal) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO settings (name, value) VALUES (?,?) ON DUPLICATE KEY UPDATE value=VALUES(value)",
		ticketPriceSetting, price.String())
	return err
}
