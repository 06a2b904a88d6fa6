package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/hunter/internal/infrastructure/buffer"
	"github.com/fastygo/hunter/internal/ops"
	"github.com/fastygo/hunter/internal/services"
)

// storeHealth gates the drain on a single store ping.
type storeHealth struct{ online bool }

func (h storeHealth) IsOnline() bool { return h.online }

func newDrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Replay the write-behind buffer into the primary store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := env.cfg
			stores, closeStores, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStores()
			if err := stores.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("store unreachable: %w", err)
			}

			store, err := buffer.Open(cfg.Buffer.Path, buffer.Options{MaxSize: cfg.Buffer.MaxSize})
			if err != nil {
				return err
			}
			defer store.Close()

			processor := services.NewBufferProcessor(store, storeHealth{online: true}, services.ReplayStores{
				Profiles: stores.Profiles,
				Tasks:    stores.Tasks,
				Progress: stores.Progress,
			}, env.logger, services.ProcessorConfig{
				Interval:   cfg.Buffer.SyncInterval,
				BatchSize:  cfg.Buffer.BatchSize,
				MaxRetries: cfg.Buffer.MaxRetry,
			})

			report, err := ops.DrainAll(cmd.Context(), processor)
			fmt.Fprintf(cmd.OutOrStdout(), "replayed %d, dropped %d, retried %d, %d left\n",
				report.Replayed, report.Dropped, report.Retried, processor.Size())
			if err != nil {
				return err
			}
			if report.Retried > 0 {
				return errors.New("buffer head could not be replayed, try again later")
			}
			return nil
		},
	}
}
