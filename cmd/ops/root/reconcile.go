package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/hunter/internal/ops"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute level, current XP and streak of every profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, closeStores, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStores()

			now := time.Now().In(env.cfg.Progression.Location)
			report, err := ops.Reconcile(cmd.Context(), stores.Profiles, stores.Tasks, now, env.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d of %d profiles\n", report.Fixed, report.Checked)
			return nil
		},
	}
}
