package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// recordsJSONL is the source-of-truth file inside DataDir.
const recordsJSONL = "records.jsonl"

// recordLine is one line of records.jsonl.
type recordLine struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// readJSONL returns the well-formed lines of a JSONL file. Lines that are
// not JSON, have no key, or carry a non-JSON value are skipped.
func readJSONL(path string) ([]recordLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []recordLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line recordLine
		if err := json.Unmarshal(raw, &line); err != nil {
			continue
		}
		if line.Key == "" || len(line.Value) == 0 || !json.Valid(line.Value) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return lines, nil
}

// writeJSONL replaces path with lines using temp file, fsync, rename, so a
// crash leaves either the old or the new file and never a partial one.
func writeJSONL(path string, lines []recordLine) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".records-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, line := range lines {
		if err = enc.Encode(line); err != nil {
			return fmt.Errorf("writing %s: %w", line.Key, err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// initJSONL creates an empty records file if none exists.
func initJSONL(dataDir string) error {
	path := filepath.Join(dataDir, recordsJSONL)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", recordsJSONL, err)
	}
	return f.Close()
}
