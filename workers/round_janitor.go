package workers

import (
	"context"
	"log"
	"time"
)

// RoundEvicter drops live rounds idle for longer than a TTL.
type RoundEvicter interface {
	EvictStale(ttl time.Duration) int
	Len() int
}

// EvictStaleRounds sweeps rounds every interval until ctx is cancelled.
func EvictStaleRounds(ctx context.Context, rounds RoundEvicter, ttl, interval time.Duration) {
	log.Printf("Starting round janitor (ttl %s, every %s)...", ttl, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Round janitor stopped.")
			return
		case <-ticker.C:
			if n := rounds.EvictStale(ttl); n > 0 {
				log.Printf("🧹 [ROUNDS] evicted %d stale round(s), %d live", n, rounds.Len())
			}
		}
	}
}
