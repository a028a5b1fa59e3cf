package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const ticketsSchema = `
CREATE TABLE IF NOT EXISTS tickets (
	reference TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'open'
);`

// SQLiteStore - тот же контракт, что у FileStore, но в sqlite.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, err
	}
	// один писатель
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(ticketsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tickets table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, ref string) (Ticket, bool, error) {
	var t Ticket
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, status FROM tickets WHERE reference = ?`, ref,
	).Scan(&t.UserID, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Ticket{}, false, nil
	}
	if err != nil {
		return Ticket{}, false, err
	}
	return t, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, ref string, ticket Ticket) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (reference, user_id, status) VALUES (?, ?, ?)
		ON CONFLICT(reference) DO UPDATE SET user_id = excluded.user_id, status = excluded.status`,
		ref, ticket.UserID, ticket.Status,
	)
	return err
}

func (s *SQLiteStore) List(ctx context.Context) (map[string]Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT reference, user_id, status FROM tickets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make(map[string]Ticket)
	for rows.Next() {
		var (
			ref string
			t   Ticket
		)
		if err := rows.Scan(&ref, &t.UserID, &t.Status); err != nil {
			return nil, err
		}
		tickets[ref] = t
	}
	return tickets, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
