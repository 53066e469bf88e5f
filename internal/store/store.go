// Package store handles SQLite persistence for the imported library.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"shelfstats/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for book and session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			progress INTEGER NOT NULL,
			estimated_pages INTEGER NOT NULL,
			reading_time INTEGER NOT NULL,
			last_read TEXT NOT NULL,
			is_to_read INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reading_sessions (
			book_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			start_at TEXT NOT NULL,
			end_at TEXT NOT NULL,
			seconds REAL NOT NULL,
			PRIMARY KEY (book_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_books_position ON books(position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceLibrary swaps the stored library for the given books in one
// transaction, preserving book and session order.
func (s *Store) ReplaceLibrary(ctx context.Context, books []model.BookRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM reading_sessions`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return err
	}

	bookStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO books (id, position, title, author, progress, estimated_pages, reading_time, last_read, is_to_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := bookStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	sessionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reading_sessions (book_id, seq, start_at, end_at, seconds)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sessionStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for pos, b := range books {
		toRead := 0
		if b.IsToRead {
			toRead = 1
		}
		if _, err = bookStmt.ExecContext(ctx, b.ID, pos, b.Title, b.Author,
			b.Progress, b.EstimatedPages, b.ReadingTime, b.LastRead, toRead); err != nil {
			return err
		}
		for seq, sess := range b.ReadingSessions {
			if _, err = sessionStmt.ExecContext(ctx, b.ID, seq, sess.StartAt, sess.EndAt, sess.Seconds); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListBooks returns all stored books with their sessions in import order.
func (s *Store) ListBooks(ctx context.Context) ([]model.BookRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, progress, estimated_pages, reading_time, last_read, is_to_read
		 FROM books ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	books := []model.BookRecord{}
	index := map[string]int{}
	for rows.Next() {
		var b model.BookRecord
		var toRead int
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Progress,
			&b.EstimatedPages, &b.ReadingTime, &b.LastRead, &toRead); err != nil {
			return nil, err
		}
		b.IsToRead = toRead != 0
		b.ReadingSessions = []model.SessionRecord{}
		index[b.ID] = len(books)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessRows, err := s.db.QueryContext(ctx,
		`SELECT book_id, start_at, end_at, seconds
		 FROM reading_sessions ORDER BY book_id ASC, seq ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sessRows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for sessRows.Next() {
		var bookID string
		var sess model.SessionRecord
		if err := sessRows.Scan(&bookID, &sess.StartAt, &sess.EndAt, &sess.Seconds); err != nil {
			return nil, err
		}
		if i, ok := index[bookID]; ok {
			books[i].ReadingSessions = append(books[i].ReadingSessions, sess)
		}
	}
	if err := sessRows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
