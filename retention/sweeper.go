// api/retention/sweeper.go
package retention

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	logger "github.com/rollcall-app/api/logging"
)

// Store is the slice of the durable store the sweeper touches: hard deletes
// of rows past the retention watermark, one method per entity family.
type Store interface {
	PurgeChecks(ctx context.Context, watermark time.Time) (int64, error)
	PurgeAttendances(ctx context.Context, watermark time.Time) (int64, error)
	PurgeTeacherLinks(ctx context.Context, watermark time.Time) (int64, error)
	PurgeRefreshTokens(ctx context.Context, watermark time.Time) (int64, error)
	PurgeCourses(ctx context.Context, watermark time.Time) (int64, error)
	PurgeUsers(ctx context.Context, watermark time.Time) (int64, error)
	PurgeOrphanedReferenceData(ctx context.Context) (int64, error)
}

// Sweeper states.
const (
	StateStopped   = "stopped"
	StateScheduled = "scheduled"
	StateRunning   = "running"
)

// Sweeper permanently removes soft-deleted and expired records older than
// the retention window. It fires once immediately on start, then on a fixed
// interval, deleting child families before their parents so foreign keys
// hold throughout a run.
type Sweeper struct {
	store         Store
	retentionDays int
	interval      time.Duration
	now           func() time.Time

	mu    sync.Mutex
	state string
}

func NewSweeper(store Store, retentionDays int, interval time.Duration, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		store:         store,
		retentionDays: retentionDays,
		interval:      interval,
		now:           now,
		state:         StateStopped,
	}
}

// State reports the sweeper's current scheduling state.
func (s *Sweeper) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sweeper) setState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Start schedules the sweeper: one run now, then one per interval until the
// context is canceled. It returns immediately.
func (s *Sweeper) Start(ctx context.Context) {
	s.setState(StateScheduled)
	go func() {
		s.RunOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.setState(StateStopped)
				logger.Info("Retention sweeper stopped")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce executes a single sweep. A failure in one entity family is logged
// and the run moves on to the next; nothing escapes to kill the schedule.
func (s *Sweeper) RunOnce(ctx context.Context) {
	s.setState(StateRunning)
	defer s.setState(StateScheduled)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Retention sweep panicked", zap.Any("panic", r))
		}
	}()

	watermark := s.now().AddDate(0, 0, -s.retentionDays)
	logger.Info("Retention sweep starting",
		zap.Time("watermark", watermark),
		zap.Int("retentionDays", s.retentionDays))

	// Children before parents, reference tables last.
	families := []struct {
		name  string
		purge func(context.Context) (int64, error)
	}{
		{"attendance_checks", func(ctx context.Context) (int64, error) { return s.store.PurgeChecks(ctx, watermark) }},
		{"course_attendances", func(ctx context.Context) (int64, error) { return s.store.PurgeAttendances(ctx, watermark) }},
		{"course_teachers", func(ctx context.Context) (int64, error) { return s.store.PurgeTeacherLinks(ctx, watermark) }},
		{"refresh_tokens", func(ctx context.Context) (int64, error) { return s.store.PurgeRefreshTokens(ctx, watermark) }},
		{"courses", func(ctx context.Context) (int64, error) { return s.store.PurgeCourses(ctx, watermark) }},
		{"users", func(ctx context.Context) (int64, error) { return s.store.PurgeUsers(ctx, watermark) }},
		{"reference_data", func(ctx context.Context) (int64, error) { return s.store.PurgeOrphanedReferenceData(ctx) }},
	}

	var total int64
	for _, family := range families {
		removed, err := family.purge(ctx)
		if err != nil {
			logger.Error("Retention sweep failed for family",
				zap.Error(err),
				zap.String("family", family.name))
			continue
		}
		if removed == 0 {
			logger.Debug("Nothing to purge", zap.String("family", family.name))
			continue
		}
		logger.Info("Purged stale records",
			zap.String("family", family.name),
			zap.Int64("removed", removed))
		total += removed
	}

	logger.Info("Retention sweep finished", zap.Int64("totalRemoved", total))
}
