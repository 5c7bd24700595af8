// api/service/course_service.go
package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/util"
)

// ICourseService defines the interface for course operations
type ICourseService interface {
	GetCourse(ctx context.Context, courseID string) (*model.Course, error)
	ListCourses(ctx context.Context, pageNr, pageSize int) ([]model.Course, error)
	CreateCourse(ctx context.Context, course model.Course) (*model.Course, error)
	UpdateCourse(ctx context.Context, course model.Course) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
	AssignTeacher(ctx context.Context, courseID, userID string) error
	UnassignTeacher(ctx context.Context, courseID, userID string) error
	ListStatuses(ctx context.Context) ([]model.CourseStatus, error)
}

// CourseService serves reads through the cache facade and invalidates every
// key touching a course on mutation.
type CourseService struct {
	courses CourseStore
	cache   *util.CacheService
}

var _ ICourseService = &CourseService{}

func NewCourseService(courses CourseStore, cache *util.CacheService) *CourseService {
	return &CourseService{courses: courses, cache: cache}
}

func (s *CourseService) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	return util.GetOrLoad(ctx, s.cache, util.Key("Course", courseID), util.TTLMedium,
		func(ctx context.Context) (*model.Course, error) {
			return s.courses.GetByID(ctx, courseID)
		})
}

func (s *CourseService) ListCourses(ctx context.Context, pageNr, pageSize int) ([]model.Course, error) {
	key := util.Key("CourseList", strconv.Itoa(pageNr), strconv.Itoa(pageSize))
	return util.GetOrLoad(ctx, s.cache, key, util.TTLShort,
		func(ctx context.Context) ([]model.Course, error) {
			return s.courses.ListPage(ctx, pageNr, pageSize)
		})
}

func (s *CourseService) CreateCourse(ctx context.Context, course model.Course) (*model.Course, error) {
	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	// New rows change listings even though no key names them yet.
	s.cache.Invalidate(ctx, "CourseList")
	logger.Info("Course created", zap.String("courseID", created.ID))
	return created, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, course model.Course) (*model.Course, error) {
	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, updated.ID)
	s.cache.Invalidate(ctx, "CourseList")
	return updated, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.courses.SoftDelete(ctx, courseID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, courseID)
	s.cache.Invalidate(ctx, "CourseList")
	return nil
}

// AssignTeacher grants the user access to the course and its attendances.
// The access-decision keys embed the course ID, so one sweep flips cached
// denials.
func (s *CourseService) AssignTeacher(ctx context.Context, courseID, userID string) error {
	if err := s.courses.AddTeacher(ctx, courseID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, courseID)
	return nil
}

func (s *CourseService) UnassignTeacher(ctx context.Context, courseID, userID string) error {
	if err := s.courses.RemoveTeacher(ctx, courseID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, courseID)
	return nil
}

func (s *CourseService) ListStatuses(ctx context.Context) ([]model.CourseStatus, error) {
	return util.GetOrLoad(ctx, s.cache, util.Key("CourseStatuses"), util.TTLStatic,
		func(ctx context.Context) ([]model.CourseStatus, error) {
			return s.courses.ListStatuses(ctx)
		})
}
