package cmd

import (
	"fmt"

	"github.com/psyprep/psyprep/internal/config"
	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/progress"
	"github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [exercise]",
	Short: "Discard saved in-progress sessions",
	Long:  "Discard the saved in-progress session for an exercise (wat, srt), or for all exercises when none is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := []exercise.Kind{exercise.WordAssociation, exercise.SituationReaction}
		if len(args) == 1 {
			kind, err := exercise.ParseKind(args[0])
			if err != nil {
				return err
			}
			kinds = []exercise.Kind{kind}
		}

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

		progressStore := progress.NewSQLiteStore(st.DB())
		for _, kind := range kinds {
			if err := progressStore.Clear(session.ProgressKey(kind)); err != nil {
				return fmt.Errorf("clear %s progress: %w", kind, err)
			}
			fmt.Printf("Cleared saved progress for %s.\n", kind.Title())
		}
		return nil
	},
}
