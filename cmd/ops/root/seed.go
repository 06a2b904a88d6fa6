package root

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/hunter/internal/ops"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load profiles and tasks from a YAML fixtures file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			fixtures, err := ops.ParseFixtures(fh)
			if err != nil {
				return err
			}

			stores, closeStores, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStores()

			now := time.Now().In(env.cfg.Progression.Location)
			report, err := ops.Seed(cmd.Context(), stores.Profiles, stores.Tasks, fixtures, now, env.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d profiles (%d existing) and %d tasks\n",
				report.Profiles, report.ProfilesSkipped, report.Tasks)

			// seeded completions feed the streaks
			fixed, err := ops.Reconcile(cmd.Context(), stores.Profiles, stores.Tasks, now, env.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d of %d profiles\n", fixed.Fixed, fixed.Checked)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixtures file (YAML)")
	return cmd
}
