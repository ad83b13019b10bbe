package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Get implements types.Store.
func (b *Backend) Get(entityType, id string) ([]byte, bool, error) {
	if err := types.ValidateKey(entityType, id); err != nil {
		return nil, false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, false, types.ErrStoreDetached
	}

	var value string
	err := b.db.QueryRow(`SELECT value FROM records WHERE key = ?`, types.RecordKey(b.prefix, entityType, id)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s %s: %w", entityType, id, err)
	}
	return []byte(value), true, nil
}

// GetAll implements types.Store. Keys are matched by prefix in Go because
// the separator "_" is a LIKE wildcard.
func (b *Backend) GetAll(entityType string) ([][]byte, error) {
	if err := types.ValidateEntityType(entityType); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	ns := types.NamespacePrefix(b.prefix, entityType)
	rows, err := b.db.Query(`SELECT key, value FROM records WHERE key >= ? ORDER BY key`, ns)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entityType, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", entityType, err)
		}
		if !strings.HasPrefix(key, ns) {
			break
		}
		out = append(out, []byte(value))
	}
	return out, rows.Err()
}

// Set implements types.Store.
func (b *Backend) Set(entityType, id string, value []byte) error {
	if err := types.ValidateKey(entityType, id); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w: %s %s: value is not JSON", types.ErrSerialization, entityType, id)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	key := types.RecordKey(b.prefix, entityType, id)
	return b.mutate(key, "set", func(tx *sql.Tx) (bool, error) {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO records (key, value) VALUES (?, ?)`, key, string(value)); err != nil {
			return false, fmt.Errorf("set %s: %w", key, err)
		}
		return true, nil
	})
}

// Remove implements types.Store.
func (b *Backend) Remove(entityType, id string) error {
	if err := types.ValidateKey(entityType, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	key := types.RecordKey(b.prefix, entityType, id)
	return b.mutate(key, "remove", func(tx *sql.Tx) (bool, error) {
		res, err := tx.Exec(`DELETE FROM records WHERE key = ?`, key)
		if err != nil {
			return false, fmt.Errorf("remove %s: %w", key, err)
		}
		n, _ := res.RowsAffected()
		return n > 0, nil
	})
}

// mutate applies change in a transaction. Under the immediate strategy the
// JSONL snapshot is written from inside the transaction and the change is
// committed only once the file is in place, so a failed write leaves the
// prior value readable. change reports whether anything was modified. The
// caller must hold b.mu.
func (b *Backend) mutate(key, operation string, change func(tx *sql.Tx) (bool, error)) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("%s %s: begin: %w", operation, key, err)
	}
	defer tx.Rollback()

	changed, err := change(tx)
	if err != nil {
		return err
	}
	if !changed {
		return tx.Commit()
	}

	if b.shouldPersistImmediately() {
		if err := b.persistJSONL(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%s %s: commit: %w", operation, key, err)
		}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s %s: commit: %w", operation, key, err)
	}
	b.queueWrite(key, operation)
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// persistJSONL rewrites records.jsonl from the records table as seen by q.
// The caller must hold b.mu.
func (b *Backend) persistJSONL(q queryer) error {
	rows, err := q.Query(`SELECT key, value FROM records ORDER BY key`)
	if err != nil {
		return fmt.Errorf("snapshot records: %w", err)
	}
	defer rows.Close()

	var lines []recordLine
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("snapshot records: %w", err)
		}
		lines = append(lines, recordLine{Key: key, Value: json.RawMessage(value)})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("snapshot records: %w", err)
	}
	return writeJSONL(filepath.Join(b.dataDir, recordsJSONL), lines)
}
