package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
)

// loadJSONL reads records.jsonl into the records table in one transaction.
// Either every well-formed line loads or the table stays empty. A key that
// appears twice keeps its last value.
func loadJSONL(db *sql.DB, dataDir string) (int, error) {
	lines, err := readJSONL(filepath.Join(dataDir, recordsJSONL))
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO records (key, value) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing load insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err := stmt.Exec(line.Key, string(line.Value)); err != nil {
			return 0, fmt.Errorf("loading %s: %w", line.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return len(lines), nil
}
