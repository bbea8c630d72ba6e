// Package repository contains data access logic for Show domain operations.
// A Show is a scheduled event tickets are sold against. Show records are
// append-only: they are created by the owner and never mutated or deleted,
// so the repository exposes only Create and GetByID.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel comparisons
	"time"         // time for the schedule fields
)

// Show represents a scheduled event. StartsAt is stored as DATETIME in UTC;
// DurationMinutes is informational and immutable after creation.
type Show struct {
	ID              uint64    // ID is the primary key, assigned from 1 upward
	Name            string    // Name is the non-empty title of the event
	StartsAt        time.Time // StartsAt is when the show begins (UTC)
	DurationMinutes uint32    // DurationMinutes is the length of the show
	CreatedAt       time.Time // CreatedAt records row creation time
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// Create inserts a new show and assigns the generated ID back to the show
// struct. AUTO_INCREMENT starts at 1, so the first show gets id 1 and id 0
// is never produced. The caller must have validated the name and schedule.
func (r *ShowRepo) Create(ctx context.Context, s *Show) error {
	const q = `INSERT INTO shows (name, starts_at, duration_minutes) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.StartsAt.UTC(), s.DurationMinutes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Fetch the freshly inserted row to populate DB-default fields.
	const sel = `SELECT id, name, starts_at, duration_minutes, created_at FROM shows WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.Name, &s.StartsAt, &s.DurationMinutes, &s.CreatedAt,
	)
}

// GetByID retrieves a show by its ID. It returns ErrShowNotFound if there
// is no matching row, which covers id 0 and every unassigned id.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*Show, error) {
	const q = `SELECT id, name, starts_at, duration_minutes, created_at FROM shows WHERE id = ?`
	var s Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.StartsAt, &s.DurationMinutes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDTx is like GetByID but participates in the caller's transaction,
// so a purchase sees the show row consistently with its own writes.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*Show, error) {
	const q = `SELECT id, name, starts_at, duration_minutes, created_at FROM shows WHERE id = ?`
	var s Show
	err := tx.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.StartsAt, &s.DurationMinutes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}
