// api/retention/sweeper_test.go
package retention_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/retention"
)

func TestMain(m *testing.M) {
	logging.InitTestLogger()
	m.Run()
}

// fakeStore keeps per-family rows as bare timestamps and purges the ones
// older than the watermark, recording call order.
type fakeStore struct {
	rows      map[string][]time.Time
	callOrder []string
	failOn    string
	firstRun  chan struct{}
	signaled  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:     make(map[string][]time.Time),
		firstRun: make(chan struct{}),
	}
}

func (f *fakeStore) purge(family string, watermark time.Time) (int64, error) {
	f.callOrder = append(f.callOrder, family)
	if !f.signaled {
		f.signaled = true
		close(f.firstRun)
	}
	if family == f.failOn {
		return 0, errors.New("simulated store failure")
	}
	var kept []time.Time
	var removed int64
	for _, ts := range f.rows[family] {
		if ts.Before(watermark) {
			removed++
		} else {
			kept = append(kept, ts)
		}
	}
	f.rows[family] = kept
	return removed, nil
}

func (f *fakeStore) PurgeChecks(ctx context.Context, w time.Time) (int64, error) {
	return f.purge("attendance_checks", w)
}
func (f *fakeStore) PurgeAttendances(ctx context.Context, w time.Time) (int64, error) {
	return f.purge("course_attendances", w)
}
func (f *fakeStore) PurgeTeacherLinks(ctx context.Context, w time.Time) (int64, error) {
	return f.purge("course_teachers", w)
}
func (f *fakeStore) PurgeRefreshTokens(ctx context.Context, w time.Time) (int64, error) {
	return f.purge("refresh_tokens", w)
}
func (f *fakeStore) PurgeCourses(ctx context.Context, w time.Time) (int64, error) {
	return f.purge("courses", w)
}
func (f *fakeStore) PurgeUsers(ctx context.Context, w time.Time) (int64, error) {
	return f.purge("users", w)
}
func (f *fakeStore) PurgeOrphanedReferenceData(ctx context.Context) (int64, error) {
	return f.purge("reference_data", time.Time{})
}

func fixedClock() (func() time.Time, time.Time) {
	now := time.Date(2025, 9, 1, 3, 0, 0, 0, time.UTC)
	return func() time.Time { return now }, now
}

func TestSweepHonorsRetentionCutoff(t *testing.T) {
	clock, now := fixedClock()
	store := newFakeStore()
	store.rows["courses"] = []time.Time{
		now.AddDate(0, 0, -31), // past the watermark, must go
		now.AddDate(0, 0, -29), // inside the window, must stay
	}

	sweeper := retention.NewSweeper(store, 30, 24*time.Hour, clock)
	sweeper.RunOnce(context.Background())

	require.Len(t, store.rows["courses"], 1)
	assert.Equal(t, now.AddDate(0, 0, -29), store.rows["courses"][0])
}

func TestSweepDeletesChildrenBeforeParents(t *testing.T) {
	clock, _ := fixedClock()
	store := newFakeStore()

	sweeper := retention.NewSweeper(store, 30, 24*time.Hour, clock)
	sweeper.RunOnce(context.Background())

	assert.Equal(t, []string{
		"attendance_checks",
		"course_attendances",
		"course_teachers",
		"refresh_tokens",
		"courses",
		"users",
		"reference_data",
	}, store.callOrder)
}

func TestSweepContinuesPastFamilyFailure(t *testing.T) {
	clock, now := fixedClock()
	store := newFakeStore()
	store.failOn = "course_attendances"
	store.rows["users"] = []time.Time{now.AddDate(0, 0, -40)}

	sweeper := retention.NewSweeper(store, 30, 24*time.Hour, clock)
	sweeper.RunOnce(context.Background())

	assert.Len(t, store.callOrder, 7, "a failing family must not end the run")
	assert.Empty(t, store.rows["users"], "families after the failure still purge")
}

func TestRunOnceReturnsToScheduled(t *testing.T) {
	clock, _ := fixedClock()
	sweeper := retention.NewSweeper(newFakeStore(), 30, 24*time.Hour, clock)

	assert.Equal(t, retention.StateStopped, sweeper.State())
	sweeper.RunOnce(context.Background())
	assert.Equal(t, retention.StateScheduled, sweeper.State())
}

func TestStartFiresImmediatelyAndStopsOnCancel(t *testing.T) {
	store := newFakeStore()
	sweeper := retention.NewSweeper(store, 30, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	select {
	case <-store.firstRun:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run immediately on start")
	}

	cancel()
	assert.Eventually(t, func() bool {
		return sweeper.State() == retention.StateStopped
	}, 2*time.Second, 10*time.Millisecond)
}
