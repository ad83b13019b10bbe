// Package sqlite implements the SQLite key-value backend. records.jsonl in
// DataDir is the source of truth; SQLite is a cache loaded from it on Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// dbFileName is the SQLite cache file inside DataDir.
const dbFileName = "blueprint.db"

// Backend implements types.Backend using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	prefix   string
	dataDir  string
	db       *sql.DB
	log      logrus.FieldLogger

	syncStrategy  string
	batchSize     int
	batchInterval time.Duration
	pendingWrites []pendingWrite // writes not yet persisted to JSONL
	batchTimer    *time.Timer
	batchMu       sync.Mutex // protects pendingWrites and batchTimer
}

// pendingWrite records a mutation whose JSONL persist was deferred by the
// on_close or batch strategy.
type pendingWrite struct {
	key       string
	operation string // "set" or "remove"
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for background flush failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Backend) { b.log = l }
}

// NewBackend creates a detached SQLite backend. Call Attach to use it.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach creates DataDir if needed, rebuilds the SQLite cache from
// records.jsonl and starts the batch timer for the batch strategy.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The cache is rebuilt from JSONL on every attach.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := initJSONL(dataDir); err != nil {
		db.Close()
		return err
	}
	loaded, err := loadJSONL(db, dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.prefix = config.Prefix()
	b.dataDir = dataDir
	b.syncStrategy = config.SQLiteConfig.GetSyncStrategy()
	b.batchSize = config.SQLiteConfig.GetBatchSize()
	b.batchInterval = time.Duration(config.SQLiteConfig.GetBatchInterval()) * time.Second
	b.pendingWrites = nil
	b.attached = true

	if b.syncStrategy == types.SyncBatch && b.batchInterval > 0 {
		b.startBatchTimer()
	}

	b.log.WithFields(logrus.Fields{
		"data_dir": dataDir,
		"records":  loaded,
		"sync":     b.syncStrategy,
	}).Debug("sqlite backend attached")
	return nil
}

// Detach flushes pending writes and closes SQLite. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.stopBatchTimer()

	if err := b.flushPendingWrites(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// shouldPersistImmediately reports whether each write rewrites the JSONL
// file before returning.
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// queueWrite adds a deferred write and flushes when the batch is full.
// The caller must hold b.mu.
func (b *Backend) queueWrite(key, operation string) {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	b.pendingWrites = append(b.pendingWrites, pendingWrite{key: key, operation: operation})

	if b.syncStrategy == types.SyncBatch && b.batchSize > 0 && len(b.pendingWrites) >= b.batchSize {
		if err := b.flushPendingWritesBatchLocked(); err != nil {
			b.log.WithError(err).Warn("batch flush failed")
		}
	}
}

// flushPendingWrites persists queued writes. The caller must hold b.mu.
func (b *Backend) flushPendingWrites() error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	return b.flushPendingWritesBatchLocked()
}

// flushPendingWritesBatchLocked rewrites the JSONL snapshot once for all
// queued writes. The caller must hold b.batchMu. On failure the queue is
// kept so the next flush retries.
func (b *Backend) flushPendingWritesBatchLocked() error {
	if len(b.pendingWrites) == 0 {
		return nil
	}
	if err := b.persistJSONL(b.db); err != nil {
		last := b.pendingWrites[len(b.pendingWrites)-1]
		return fmt.Errorf("flush %d writes (last %s %s): %w", len(b.pendingWrites), last.operation, last.key, err)
	}
	b.pendingWrites = nil
	return nil
}

// startBatchTimer starts the periodic batch flush.
func (b *Backend) startBatchTimer() {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if b.batchTimer != nil {
		return
	}

	b.batchTimer = time.AfterFunc(b.batchInterval, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if !b.attached {
			return
		}
		if err := b.flushPendingWrites(); err != nil {
			b.log.WithError(err).Warn("batch interval flush failed")
		}

		b.batchMu.Lock()
		if b.batchTimer != nil {
			b.batchTimer.Reset(b.batchInterval)
		}
		b.batchMu.Unlock()
	})
}

// stopBatchTimer stops the batch timer if running.
func (b *Backend) stopBatchTimer() {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if b.batchTimer != nil {
		b.batchTimer.Stop()
		b.batchTimer = nil
	}
}

// pendingCount returns the number of queued writes.
func (b *Backend) pendingCount() int {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()
	return len(b.pendingWrites)
}
