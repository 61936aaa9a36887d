// Package janitor periodically removes expired rows from the token blacklist.
package janitor

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes expired entries and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Run purges once per interval until ctx is cancelled. It blocks; start it in a goroutine.
// A non-positive interval returns immediately.
func Run(ctx context.Context, p Purger, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("blacklist purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("blacklist purged", "deleted", n)
			}
		}
	}
}
