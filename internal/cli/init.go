package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/internal/paths"
)

func newInitCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize blueprint configuration and storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, then attach and detach the storage backend once.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, st)
		},
	}
}

func runInit(cmd *cobra.Command, st *rootState) error {
	configDir, err := paths.ResolveConfigDir(st.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// An explicit --data-dir is recorded so later runs find the same store.
	dataDir := ""
	if st.dataDir != "" {
		if dataDir, err = filepath.Abs(st.dataDir); err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
	}
	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, dataDir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	s, _, err := st.settings()
	if err != nil {
		return err
	}
	s.Log.Output = cmd.ErrOrStderr()
	a, err := app.New(s, st.appOpts...)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := a.Close(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Blueprint initialized\nconfig: %s\n", configPath)
	if !st.ephemeral {
		fmt.Fprintf(out, "data:   %s\n", s.Store.DataDir)
	}
	return nil
}
