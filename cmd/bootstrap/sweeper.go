package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"campus-library/internal/pkg/config"
	"campus-library/internal/usecase/commands"

	"go.uber.org/fx"
)

// SweeperModule runs the reservation expiry and loan overdue sweeps on a
// fixed interval. A zero interval disables both and the stored deadlines
// stay advisory.
var SweeperModule = fx.Module("sweeper",
	fx.Invoke(startSweeper),
)

func startSweeper(lc fx.Lifecycle, cfg config.Config, reservationCommands commands.ReservationCommands, loanCommands commands.LoanCommands) {
	interval := cfg.Reservation.SweepInterval
	if interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						expired, err := reservationCommands.ExpireOverdue(ctx)
						if err != nil {
							slog.Warn("reservation expiry sweep failed", "error", err.Error())
							continue
						}
						if expired > 0 {
							slog.Info("expired overdue reservations", "count", expired)
						}
						flipped, err := loanCommands.MarkOverdue(ctx)
						if err != nil {
							slog.Warn("loan overdue sweep failed", "error", err.Error())
							continue
						}
						if flipped > 0 {
							slog.Info("marked loans overdue", "count", flipped)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
