// Package sqlite exposes the SQLite backend factory while keeping the
// implementation internal.
package sqlite

import (
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/blueprint/internal/sqlite"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// NewBackend creates a detached SQLite backend. A nil logger uses the
// logrus standard logger.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".blueprint-db",
//	})
//	defer backend.Detach()
func NewBackend(log logrus.FieldLogger) types.Backend {
	if log == nil {
		return sqlite.NewBackend()
	}
	return sqlite.NewBackend(sqlite.WithLogger(log))
}
