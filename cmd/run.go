package cmd

import (
	"fmt"
	"os"

	"github.com/psyprep/psyprep/internal/api"
	"github.com/psyprep/psyprep/internal/app"
	"github.com/psyprep/psyprep/internal/config"
	"github.com/psyprep/psyprep/internal/store"
	"github.com/spf13/cobra"
)

// runApp loads configuration, opens the store, builds the API client,
// and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg := config.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration error:", err)
		return err
	}

	// A broken database is not fatal: fall back to in-memory progress
	// so a practice run is still possible, just not durable.
	var st *store.Store
	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; progress will not survive exit\n", err)
	} else if st, err = store.Open(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open %s (%v); progress will not survive exit\n", dbPath, err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	client := api.NewClient(cfg.API.BaseURL, api.StaticToken(cfg.API.Token),
		api.WithTimeout(cfg.API.Timeout))

	return app.Run(app.Options{
		Config: cfg,
		Store:  st,
		Client: client,
	})
}
