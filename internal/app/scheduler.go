package app

import (
	"context"
	"log"
	"time"

	"skill-barter/internal/usecase"
)

// startSyncScheduler rebuilds the skill index once immediately and then on the
// given interval. The rebuild never blocks request handling; readers see the
// previous index generation until the swap.
func startSyncScheduler(uc usecase.SyncUsecase, interval time.Duration, logger *log.Logger) (stop func()) {
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		runSync(ctx, uc, logger)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSync(ctx, uc, logger)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func runSync(ctx context.Context, uc usecase.SyncUsecase, logger *log.Logger) {
	if err := uc.SyncAll(ctx); err != nil {
		if logger != nil {
			logger.Printf("[Sync] scheduled rebuild failed: %v", err)
		}
	}
}
