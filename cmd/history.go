package cmd

import (
	"fmt"

	"github.com/psyprep/psyprep/internal/config"
	"github.com/psyprep/psyprep/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List submitted sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.ConfigFromEnv()
		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		outcomes, err := st.OutcomeRepo().List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}

		for _, o := range outcomes {
			fmt.Printf("%s  %-20s  %d responses  session %s\n",
				o.CompletedAt.Local().Format("2006-01-02 15:04"),
				o.Exercise.Title(), len(o.Responses), o.SessionID)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 = all)")
}
