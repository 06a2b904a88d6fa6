package ops

import (
	"context"

	"github.com/fastygo/hunter/internal/services"
)

// Drainer replays one batch of buffered writes.
type Drainer interface {
	Drain(ctx context.Context) (services.DrainReport, error)
}

// DrainAll drains batch after batch until the buffer is empty or its head item
// had to be retried.
func DrainAll(ctx context.Context, d Drainer) (services.DrainReport, error) {
	var total services.DrainReport
	for {
		report, err := d.Drain(ctx)
		total.Replayed += report.Replayed
		total.Retried += report.Retried
		total.Dropped += report.Dropped
		if err != nil {
			return total, err
		}
		if report.Retried > 0 || report.Replayed+report.Dropped == 0 {
			return total, nil
		}
	}
}
