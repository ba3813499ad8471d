package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"billing-counter/billing-svc/internal/domain"
)

// PostgresStore keeps the three session keys as rows of a small
// key/value table, preserving the adapter's key-value contract.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS billing_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}

	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (domain.SessionRecord, error) {
	var record domain.SessionRecord

	keys := make(map[string]json.RawMessage)
	for _, key := range stateKeys {
		var value string
		err := s.DB.QueryRowContext(ctx,
			"SELECT value FROM billing_state WHERE key = $1", key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return record, fmt.Errorf("failed to read key %s: %w", key, err)
		}
		keys[key] = json.RawMessage(value)
	}

	decodeKeys(keys, &record)
	return record, nil
}

func (s *PostgresStore) Save(ctx context.Context, state domain.SessionState) error {
	values, err := encodeState(state)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, key := range stateKeys {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO billing_state (key, value, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()`,
			key, string(values[key])); err != nil {
			return fmt.Errorf("failed to write key %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM billing_state")
	return err
}

func encodeState(state domain.SessionState) (map[string]json.RawMessage, error) {
	transactions, err := json.Marshal(state.Transactions)
	if err != nil {
		return nil, err
	}
	rollup, err := json.Marshal(state.Rollup)
	if err != nil {
		return nil, err
	}
	sequence, err := json.Marshal(state.NextSequence)
	if err != nil {
		return nil, err
	}
	return map[string]json.RawMessage{
		keyTransactions: transactions,
		keyDailySales:   rollup,
		keyBillNumber:   sequence,
	}, nil
}
