// Package app is the composition root. It builds every service once and
// hands out references; nothing in the module keeps global state.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/blueprint/internal/ai"
	"github.com/mesh-intelligence/blueprint/internal/audit"
	"github.com/mesh-intelligence/blueprint/internal/career"
	"github.com/mesh-intelligence/blueprint/internal/ledger"
	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/memory"
	"github.com/mesh-intelligence/blueprint/internal/metrics"
	"github.com/mesh-intelligence/blueprint/internal/notify"
	"github.com/mesh-intelligence/blueprint/pkg/sqlite"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// AIConfig configures the Gemini client and gateway.
type AIConfig struct {
	Model             string
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Settings is everything needed to build an App.
type Settings struct {
	Store types.Config
	Log   logging.Config
	AI    AIConfig
}

// App holds the attached backend and the services built on it.
type App struct {
	Backend types.Backend
	Log     *logrus.Logger
	Metrics *metrics.Metrics
	Feed    *notify.Feed
	Audit   *audit.Log
	Ledger  *ledger.Ledger
	AI      *ai.Gateway
	Career  *career.Workspace
}

type options struct {
	backend   types.Backend
	generator ai.Generator
	logger    *logrus.Logger
}

// Option overrides a default collaborator.
type Option func(*options)

// WithBackend uses b instead of the backend named in Settings.
func WithBackend(b types.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithGenerator replaces the Gemini client.
func WithGenerator(g ai.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithLogger uses l instead of building one from Settings.Log.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New attaches the backend and wires the services. Call Close when done.
func New(s Settings, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = logging.New(s.Log)
	}

	backend := o.backend
	if backend == nil {
		var err error
		if backend, err = newBackend(s.Store.Backend, log); err != nil {
			return nil, err
		}
	}
	if err := backend.Attach(s.Store); err != nil {
		return nil, fmt.Errorf("attach %s backend: %w", s.Store.Backend, err)
	}

	gen := o.generator
	if gen == nil {
		gen = ai.NewGeminiClient(s.AI.BaseURL, s.AI.APIKey, s.AI.Timeout, log)
	}

	m := metrics.New()
	feed := notify.New(notify.WithLogger(log), notify.WithMetrics(m))
	auditLog := audit.New(backend, audit.WithLogger(log), audit.WithMetrics(m))
	lg := ledger.New(backend, feed, auditLog, ledger.WithLogger(log), ledger.WithMetrics(m))
	gw := ai.NewGateway(gen, auditLog, ai.Config{
		Model:             s.AI.Model,
		Timeout:           s.AI.Timeout,
		RequestsPerMinute: s.AI.RequestsPerMinute,
	}, ai.WithLogger(log), ai.WithMetrics(m))

	return &App{
		Backend: backend,
		Log:     log,
		Metrics: m,
		Feed:    feed,
		Audit:   auditLog,
		Ledger:  lg,
		AI:      gw,
		Career:  career.New(backend, feed, auditLog, lg, gw, career.WithLogger(log)),
	}, nil
}

// Close tears down the feed and detaches the backend.
func (a *App) Close() error {
	a.Feed.Close()
	return a.Backend.Detach()
}

func newBackend(name string, log *logrus.Logger) (types.Backend, error) {
	switch name {
	case types.BackendSQLite:
		return sqlite.NewBackend(log), nil
	case types.BackendMemory:
		return memory.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, errors.Join(types.ErrBackendUnknown, fmt.Errorf("backend %q", name))
	}
}
