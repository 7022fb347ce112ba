package scheduler

import (
	"time"
)

// SessionSweepJobName names the expired-session sweep
const SessionSweepJobName = "session_sweep"

// SessionSweeper removes expired sessions and reports how many it removed
type SessionSweeper interface {
	CleanExpiredSessions() int
}

// RegisterSessionSweep schedules periodic removal of expired sessions
func (s *Service) RegisterSessionSweep(sweeper SessionSweeper, interval time.Duration) error {
	_, err := s.AddIntervalJob(SessionSweepJobName, interval, func() {
		if removed := sweeper.CleanExpiredSessions(); removed > 0 {
			s.logger.Info("expired sessions removed", "count", removed)
		}
	})
	return err
}
