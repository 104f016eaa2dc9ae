// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartLeaderboardScheduler refreshes the leaderboard every interval,
// starting immediately. Call Shutdown on the returned scheduler to stop it.
func (s *LeaderboardService) StartLeaderboardScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.Refresh(ctx); err != nil {
				log.Printf("[SCHEDULER] leaderboard refresh failed: %v", err)
				return
			}
			entries, _ := s.snapshot()
			log.Printf("✅ [SCHEDULER] leaderboard refreshed (%d entries)", len(entries))
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule leaderboard refresh: %w", err)
	}

	sched.Start()
	return sched, nil
}
