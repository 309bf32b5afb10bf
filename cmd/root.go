package cmd

import (
	"github.com/psyprep/psyprep/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "psyprep",
	Short: "Psychometric practice for officer selection boards",
	Long:  "PsyPrep — terminal app for practicing timed word-association and situation-reaction exercises, with AI feedback after each session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PSYPREP_DB env var)")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PSYPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, dbFromEnv string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if dbFromEnv != "" {
		return dbFromEnv, store.EnsureDir(dbFromEnv)
	}
	return store.DefaultDBPath()
}
