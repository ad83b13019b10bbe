// Package cli implements the blueprint command-line interface. Each command
// builds the application once, runs one operation and detaches.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/internal/notify"
	"github.com/mesh-intelligence/blueprint/internal/paths"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks bad arguments or flags.
var errUsage = errors.New("usage")

// userErrors map to exitUserError; anything else is a system error.
var userErrors = []error{
	errUsage,
	types.ErrValidation,
	types.ErrNotFound,
	types.ErrInvalidEntityType,
	types.ErrAnalysisInProgress,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSyncStrategyUnknown,
}

// rootState holds global flag values for one command tree.
type rootState struct {
	configDir   string
	dataDir     string
	jsonMode    bool
	ephemeral   bool
	showMetrics bool

	appOpts []app.Option
}

// NewRootCmd creates the top-level "blueprint" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd()
}

func newRootCmd(appOpts ...app.Option) *cobra.Command {
	st := &rootState{appOpts: appOpts}

	root := &cobra.Command{
		Use:   "blueprint",
		Short: "Career dashboard: profile, goals, applications, tokens and AI analysis",
		Long: "Blueprint keeps a career profile, goals and job applications in a local store,\n" +
			"rewards progress with tokens, keeps an audit trail and runs AI resume and\n" +
			"skill gap analysis.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&st.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/blueprint)")
	pf.StringVar(&st.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/blueprint)")
	pf.BoolVar(&st.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&st.ephemeral, "ephemeral", false, "use an in-memory store that is discarded on exit")
	pf.BoolVar(&st.showMetrics, "metrics", false, "write Prometheus metrics for this run to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(st),
		newGetCmd(st),
		newListCmd(st),
		newSetCmd(st),
		newDeleteCmd(st),
		newProfileCmd(st),
		newDashboardCmd(st),
		newGoalCmd(st),
		newAppCmd(st),
		newTokensCmd(st),
		newAuditCmd(st),
		newAnalyzeCmd(st),
	)
	return root
}

// Execute runs the root command and returns the process exit code. An
// interrupt cancels the command's context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "blueprint:", err)
		return exitCode(err)
	}
	return exitSuccess
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// usageArgs wraps a positional argument check so its failure is a usage
// error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}

// settings resolves the directories, loads configuration and returns the
// application settings along with the config directory.
func (st *rootState) settings() (app.Settings, string, error) {
	configDir, err := paths.ResolveConfigDir(st.configDir)
	if err != nil {
		return app.Settings{}, "", fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return app.Settings{}, "", err
	}
	dataDir, err := paths.ResolveDataDir(st.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return app.Settings{}, "", fmt.Errorf("resolve data dir: %w", err)
	}
	return settingsFrom(v, dataDir, st.ephemeral), configDir, nil
}

// open builds the application for cmd and streams feed notifications to its
// stderr.
func (st *rootState) open(cmd *cobra.Command) (*app.App, error) {
	s, _, err := st.settings()
	if err != nil {
		return nil, err
	}
	s.Log.Output = cmd.ErrOrStderr()

	a, err := app.New(s, st.appOpts...)
	if err != nil {
		return nil, err
	}
	watchFeed(a.Feed, cmd.ErrOrStderr())
	return a, nil
}

// run adapts fn into a cobra RunE that opens the application around it.
func (st *rootState) run(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := st.open(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if st.showMetrics {
				if merr := a.Metrics.WriteText(cmd.ErrOrStderr()); merr != nil {
					err = errors.Join(err, fmt.Errorf("write metrics: %w", merr))
				}
			}
			if cerr := a.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close: %w", cerr))
			}
		}()
		return fn(cmd, args, a)
	}
}

// watchFeed prints each notification once, oldest first, as it is added.
func watchFeed(feed *notify.Feed, w io.Writer) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	feed.Subscribe(func(items []types.Notification) {
		mu.Lock()
		defer mu.Unlock()
		for i := len(items) - 1; i >= 0; i-- {
			n := items[i]
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			fmt.Fprintf(w, "[%s] %s\n", n.Type, n.Message)
		}
	})
}
