package storage

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"

	"billing-counter/billing-svc/internal/domain"
)

const (
	keyTransactions = "transactions"
	keyDailySales   = "daily_sales"
	keyBillNumber   = "bill_number"
)

var stateKeys = []string{keyTransactions, keyDailySales, keyBillNumber}

// FileStore keeps the three session keys in a single local JSON file,
// the counter's equivalent of the browser's local storage.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(ctx context.Context) (domain.SessionRecord, error) {
	var record domain.SessionRecord

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return record, nil
	}
	if err != nil {
		return record, err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		// Unreadable file behaves like an absent one.
		log.Printf("Warning: %s is not valid JSON, ignoring: %v", s.Path, err)
		return record, nil
	}

	decodeKeys(keys, &record)
	return record, nil
}

func (s *FileStore) Save(ctx context.Context, state domain.SessionState) error {
	payload := map[string]interface{}{
		keyTransactions: state.Transactions,
		keyDailySales:   state.Rollup,
		keyBillNumber:   state.NextSequence,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0644)
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// decodeKeys fills the record from raw key values; each key decodes
// independently, so one corrupt key never takes the others down.
func decodeKeys(keys map[string]json.RawMessage, record *domain.SessionRecord) {
	if raw, ok := keys[keyTransactions]; ok {
		var transactions []domain.TransactionRecord
		if err := json.Unmarshal(raw, &transactions); err == nil {
			record.Transactions = transactions
		}
	}
	if raw, ok := keys[keyDailySales]; ok {
		var rollup domain.RollupRecord
		if err := json.Unmarshal(raw, &rollup); err == nil {
			record.Rollup = rollup
		}
	}
	if raw, ok := keys[keyBillNumber]; ok {
		record.NextSequence = decodeSequence(raw)
	}
}

// decodeSequence accepts the sequence as a number or a numeric string;
// old data stored it as a string.
func decodeSequence(raw json.RawMessage) int64 {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
