// api/service/attendance_service_test.go
package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/service"
	"github.com/rollcall-app/api/util"
)

func TestGetAttendanceServesSecondReadFromCache(t *testing.T) {
	cache := newFakeCache()
	store := newFakeAttendanceStore()
	store.attendances["a-1"] = &model.CourseAttendance{ID: "a-1", CourseID: "c-1", Topic: "Paging"}
	svc := service.NewAttendanceService(store, util.NewCacheService(cache))
	ctx := context.Background()

	first, err := svc.GetAttendance(ctx, "a-1")
	require.NoError(t, err)
	require.NotSame(t, store.attendances["a-1"], first,
		"reads must hand out detached copies, never the store's live row")

	// Mutate the store behind the cache's back; the cached copy must win
	// within its TTL.
	store.attendances["a-1"].Topic = "Segmentation"
	assert.Equal(t, "Paging", first.Topic)
	second, err := svc.GetAttendance(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, first.Topic, second.Topic)
}

func TestUpdateAttendanceInvalidatesOwnAndCourseKeys(t *testing.T) {
	cache := newFakeCache()
	store := newFakeAttendanceStore()
	store.attendances["a-1"] = &model.CourseAttendance{ID: "a-1", CourseID: "c-1", Topic: "Paging"}
	svc := service.NewAttendanceService(store, util.NewCacheService(cache))
	ctx := context.Background()

	// Prime entity, listing, and current-attendance keys.
	_, err := svc.GetAttendance(ctx, "a-1")
	require.NoError(t, err)
	_, err = svc.ListCourseAttendances(ctx, "c-1", 0, 20)
	require.NoError(t, err)
	_, err = svc.CurrentAttendance(ctx, "c-1")
	require.NoError(t, err)

	updated := model.CourseAttendance{ID: "a-1", CourseID: "c-1", Topic: "Segmentation"}
	_, err = svc.UpdateAttendance(ctx, updated)
	require.NoError(t, err)

	assert.Empty(t, cache.entries,
		"every key naming the attendance or its course must be gone after the write")

	got, err := svc.GetAttendance(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Segmentation", got.Topic, "post-invalidation read must hit the store")
}

func TestDeleteAttendanceInvalidatesListings(t *testing.T) {
	cache := newFakeCache()
	store := newFakeAttendanceStore()
	store.attendances["a-1"] = &model.CourseAttendance{ID: "a-1", CourseID: "c-1"}
	svc := service.NewAttendanceService(store, util.NewCacheService(cache))
	ctx := context.Background()

	listed, err := svc.ListCourseAttendances(ctx, "c-1", 0, 20)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeleteAttendance(ctx, "a-1"))

	listed, err = svc.ListCourseAttendances(ctx, "c-1", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCourseUpdateInvalidatesCourseKeys(t *testing.T) {
	cache := newFakeCache()
	store := newFakeCourseStore()
	store.courses["c-1"] = &model.Course{ID: "c-1", Name: "Systems"}
	svc := service.NewCourseService(store, util.NewCacheService(cache))
	ctx := context.Background()

	_, err := svc.GetCourse(ctx, "c-1")
	require.NoError(t, err)
	_, err = svc.ListCourses(ctx, 0, 20)
	require.NoError(t, err)

	_, err = svc.UpdateCourse(ctx, model.Course{ID: "c-1", Name: "Operating Systems"})
	require.NoError(t, err)

	got, err := svc.GetCourse(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", got.Name)

	listed, err := svc.ListCourses(ctx, 0, 20)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Operating Systems", listed[0].Name,
		"listing keys do not embed the course ID but must still be swept")
}
