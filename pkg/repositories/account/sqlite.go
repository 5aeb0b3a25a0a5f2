package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kopeyka/casino/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite table schemas. Tables are created once when the repository is
// constructed; there is no runtime "already initialized" flag.
const (
	createAccountsTableSQL = `
	CREATE TABLE IF NOT EXISTS accounts (
		user_id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 1000,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createHistoryTableSQL = `
	CREATE TABLE IF NOT EXISTS game_history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		game_type TEXT NOT NULL,
		bet_amount INTEGER NOT NULL,
		win_amount INTEGER NOT NULL,
		result TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES accounts(user_id)
	)`

	createHistoryIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_game_history_user_id ON game_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_game_history_created_at ON game_history(created_at DESC)
	`
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(createAccountsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating accounts table: %w", err)
	}

	if _, err := db.Exec(createHistoryTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating game_history table: %w", err)
	}

	if _, err := db.Exec(createHistoryIndexesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating game_history indexes: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// GetAccount retrieves an account by user ID
func (r *SQLiteRepository) GetAccount(ctx context.Context, userID string) (*entities.Account, error) {
	query := `SELECT user_id, balance, created_at, updated_at FROM accounts WHERE user_id = ?`

	var acct entities.Account
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&acct.UserID,
		&acct.Balance,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	if acct.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, err
	}
	if acct.LastUpdated, err = parseSQLiteTime(updatedAt); err != nil {
		return nil, err
	}

	return &acct, nil
}

// CreateAccount stores a new account
func (r *SQLiteRepository) CreateAccount(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (user_id, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	now := time.Now().Format(sqliteTimeFormat)
	_, err := r.db.ExecContext(ctx, query, account.UserID, account.Balance, now, now)
	if err != nil {
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

// SettleRound applies the delta and appends the history record in one
// transaction. The balance update is conditional so a concurrent
// settlement can never drive the balance negative.
func (r *SQLiteRepository) SettleRound(ctx context.Context, userID string, delta int64, record *entities.HistoryRecord) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting settlement transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE accounts
		SET balance = balance + ?,
			updated_at = ?
		WHERE user_id = ? AND balance + ? >= 0
	`

	result, err := tx.ExecContext(ctx, updateQuery, delta, time.Now().Format(sqliteTimeFormat), userID, delta)
	if err != nil {
		return 0, fmt.Errorf("error updating balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing account from a refused delta
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE user_id = ?`, userID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("error checking account: %w", err)
		}
		if exists == 0 {
			return 0, ErrAccountNotFound
		}
		return 0, ErrInsufficientBalance
	}

	insertQuery := `
		INSERT INTO game_history (id, user_id, game_type, bet_amount, win_amount, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		record.ID,
		record.UserID,
		record.GameType,
		record.BetAmount,
		record.WinAmount,
		record.Result,
		record.Timestamp.Format(sqliteTimeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("error appending history record: %w", err)
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = ?`, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("error reading settled balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing settlement: %w", err)
	}

	return balance, nil
}

// GetHistory retrieves recent history records, most recent first
func (r *SQLiteRepository) GetHistory(ctx context.Context, userID string, limit int) ([]*entities.HistoryRecord, error) {
	query := `
		SELECT id, user_id, game_type, bet_amount, win_amount, result, created_at
		FROM game_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying history: %w", err)
	}
	defer rows.Close()

	var records []*entities.HistoryRecord

	for rows.Next() {
		var rec entities.HistoryRecord
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.GameType,
			&rec.BetAmount,
			&rec.WinAmount,
			&rec.Result,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning history row: %w", err)
		}

		if rec.Timestamp, err = parseSQLiteTime(createdAt); err != nil {
			return nil, err
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return records, nil
}

// ResetAccount restores the starting balance and clears history in one
// transaction
func (r *SQLiteRepository) ResetAccount(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting reset transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, updated_at = ? WHERE user_id = ?`,
		entities.StartingBalance, time.Now().Format(sqliteTimeFormat), userID,
	)
	if err != nil {
		return fmt.Errorf("error resetting balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_history WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("error clearing history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing reset: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// parseSQLiteTime handles the formats SQLite may hand back for timestamps
func parseSQLiteTime(value string) (time.Time, error) {
	formats := []string{
		sqliteTimeFormat,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, fmt.Errorf("error parsing timestamp '%s': %w", value, parseErr)
}
