// api/service/fakes_test.go
package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	rollcall_errors "github.com/rollcall-app/api/errors"
	"github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
)

func TestMain(m *testing.M) {
	logging.InitTestLogger()
	m.Run()
}

// In-memory cache with a manually advanced clock.
type fakeEntry struct {
	value     string
	expiresAt time.Time
}

type fakeCache struct {
	now     time.Time
	entries map[string]fakeEntry
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		now:     time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
		entries: make(map[string]fakeEntry),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	entry, ok := f.entries[key]
	if !ok || !f.now.Before(entry.expiresAt) {
		return "", rollcall_errors.ErrCacheMiss
	}
	return entry.value, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.entries[key] = fakeEntry{value: value, expiresAt: f.now.Add(ttl)}
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, substr string) (int, error) {
	deleted := 0
	for key := range f.entries {
		if strings.Contains(key, substr) {
			delete(f.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// fakeUserStore implements service.UserStore.
type fakeUserStore struct {
	users      map[string]*model.User // by ID
	emailCalls int
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID string) (*model.User, error) {
	if user, ok := f.users[userID]; ok {
		dup := *user
		return &dup, nil
	}
	return nil, rollcall_errors.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.emailCalls++
	for _, user := range f.users {
		if user.Email == email {
			dup := *user
			return &dup, nil
		}
	}
	return nil, rollcall_errors.ErrUserNotFound
}

// fakeCourseStore implements service.CourseStore.
type fakeCourseStore struct {
	courses    map[string]*model.Course
	links      map[string]int64 // courseID+"|"+userID -> link count
	countCalls int
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		courses: make(map[string]*model.Course),
		links:   make(map[string]int64),
	}
}

func linkKey(courseID, userID string) string { return courseID + "|" + userID }

func (f *fakeCourseStore) GetByID(ctx context.Context, courseID string) (*model.Course, error) {
	if course, ok := f.courses[courseID]; ok {
		dup := *course
		return &dup, nil
	}
	return nil, rollcall_errors.ErrCourseNotFound
}

func (f *fakeCourseStore) ListPage(ctx context.Context, pageNr, pageSize int) ([]model.Course, error) {
	var out []model.Course
	for _, course := range f.courses {
		out = append(out, *course)
	}
	return out, nil
}

func (f *fakeCourseStore) Create(ctx context.Context, course model.Course) (*model.Course, error) {
	f.courses[course.ID] = &course
	return &course, nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course model.Course) (*model.Course, error) {
	if _, ok := f.courses[course.ID]; !ok {
		return nil, rollcall_errors.ErrCourseNotFound
	}
	f.courses[course.ID] = &course
	return &course, nil
}

func (f *fakeCourseStore) SoftDelete(ctx context.Context, courseID string) error {
	if _, ok := f.courses[courseID]; !ok {
		return rollcall_errors.ErrCourseNotFound
	}
	delete(f.courses, courseID)
	return nil
}

func (f *fakeCourseStore) CountTeacherLinks(ctx context.Context, courseID, userID string) (int64, error) {
	f.countCalls++
	return f.links[linkKey(courseID, userID)], nil
}

func (f *fakeCourseStore) AddTeacher(ctx context.Context, courseID, userID string) error {
	f.links[linkKey(courseID, userID)]++
	return nil
}

func (f *fakeCourseStore) RemoveTeacher(ctx context.Context, courseID, userID string) error {
	delete(f.links, linkKey(courseID, userID))
	return nil
}

func (f *fakeCourseStore) ListStatuses(ctx context.Context) ([]model.CourseStatus, error) {
	return nil, nil
}

// fakeAttendanceStore implements service.AttendanceStore.
type fakeAttendanceStore struct {
	attendances map[string]*model.CourseAttendance
	checks      map[string]*model.AttendanceCheck
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{
		attendances: make(map[string]*model.CourseAttendance),
		checks:      make(map[string]*model.AttendanceCheck),
	}
}

func (f *fakeAttendanceStore) GetByID(ctx context.Context, attendanceID string) (*model.CourseAttendance, error) {
	if attendance, ok := f.attendances[attendanceID]; ok {
		dup := *attendance
		return &dup, nil
	}
	return nil, rollcall_errors.ErrAttendanceNotFound
}

func (f *fakeAttendanceStore) ListByCourse(ctx context.Context, courseID string, pageNr, pageSize int) ([]model.CourseAttendance, error) {
	var out []model.CourseAttendance
	for _, attendance := range f.attendances {
		if attendance.CourseID == courseID {
			out = append(out, *attendance)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) Current(ctx context.Context, courseID string) (*model.CourseAttendance, error) {
	for _, attendance := range f.attendances {
		if attendance.CourseID == courseID {
			dup := *attendance
			return &dup, nil
		}
	}
	return nil, rollcall_errors.ErrAttendanceNotFound
}

func (f *fakeAttendanceStore) Create(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error) {
	f.attendances[attendance.ID] = &attendance
	return &attendance, nil
}

func (f *fakeAttendanceStore) Update(ctx context.Context, attendance model.CourseAttendance) (*model.CourseAttendance, error) {
	if _, ok := f.attendances[attendance.ID]; !ok {
		return nil, rollcall_errors.ErrAttendanceNotFound
	}
	f.attendances[attendance.ID] = &attendance
	return &attendance, nil
}

func (f *fakeAttendanceStore) SoftDelete(ctx context.Context, attendanceID string) error {
	if _, ok := f.attendances[attendanceID]; !ok {
		return rollcall_errors.ErrAttendanceNotFound
	}
	delete(f.attendances, attendanceID)
	return nil
}

func (f *fakeAttendanceStore) GetCheck(ctx context.Context, checkID string) (*model.AttendanceCheck, error) {
	if check, ok := f.checks[checkID]; ok {
		dup := *check
		return &dup, nil
	}
	return nil, rollcall_errors.ErrCheckNotFound
}

func (f *fakeAttendanceStore) CreateCheck(ctx context.Context, check model.AttendanceCheck) (*model.AttendanceCheck, error) {
	f.checks[check.ID] = &check
	return &check, nil
}

func (f *fakeAttendanceStore) ListTypes(ctx context.Context) ([]model.AttendanceType, error) {
	return nil, nil
}

// fakeTokenStore implements service.RefreshTokenStore.
type fakeTokenStore struct {
	byID    map[string]*model.RefreshToken
	created int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byID: make(map[string]*model.RefreshToken)}
}

func (f *fakeTokenStore) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	for _, record := range f.byID {
		if record.Token == token {
			dup := *record
			return &dup, nil
		}
	}
	return nil, rollcall_errors.ErrRefreshTokenExpired
}

func (f *fakeTokenStore) Create(ctx context.Context, record model.RefreshToken) (*model.RefreshToken, error) {
	f.created++
	if record.ID == "" {
		record.ID = record.Token
	}
	f.byID[record.ID] = &record
	return &record, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, tokenID, replacedBy string) error {
	record, ok := f.byID[tokenID]
	if !ok || record.Revoked {
		return rollcall_errors.ErrRefreshTokenExpired
	}
	record.Revoked = true
	record.ReplacedByToken = replacedBy
	return nil
}
