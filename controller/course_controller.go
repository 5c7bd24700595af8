// api/controller/course_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	rollcall_errors "github.com/rollcall-app/api/errors"
	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/service"
	"github.com/rollcall-app/api/util"
)

// CourseController exposes the course read path and teacher assignment.
// Every per-course route runs the cached access decision first.
type CourseController struct {
	courseService service.ICourseService
	accessService service.IAccessService
}

func NewCourseController(courseService service.ICourseService, accessService service.IAccessService) *CourseController {
	return &CourseController{
		courseService: courseService,
		accessService: accessService,
	}
}

// RegisterRoutes registers the course routes
func (cc *CourseController) RegisterRoutes(r *gin.RouterGroup) {
	courses := r.Group("/courses")
	{
		courses.GET("", cc.ListCourses)
		courses.POST("", cc.CreateCourse)
		courses.GET("/statuses", cc.ListStatuses)
		courses.GET("/:id", cc.GetCourse)
		courses.PUT("/:id", cc.UpdateCourse)
		courses.DELETE("/:id", cc.DeleteCourse)
		courses.POST("/:id/teachers/:userId", cc.AssignTeacher)
		courses.DELETE("/:id/teachers/:userId", cc.UnassignTeacher)
	}
}

func (cc *CourseController) GetCourse(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !cc.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	course, err := cc.courseService.GetCourse(c, courseID)
	if err != nil {
		switch err {
		case rollcall_errors.ErrCourseNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Course not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to load course", err)
		}
		return
	}
	c.JSON(http.StatusOK, course)
}

func (cc *CourseController) ListCourses(c *gin.Context) {
	pageNr, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	courses, err := cc.courseService.ListCourses(c, pageNr, pageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list courses", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (cc *CourseController) ListStatuses(c *gin.Context) {
	statuses, err := cc.courseService.ListStatuses(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list statuses", err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (cc *CourseController) CreateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid course data", err)
		return
	}

	created, err := cc.courseService.CreateCourse(c, course)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to create course", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (cc *CourseController) UpdateCourse(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !cc.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid course data", err)
		return
	}
	course.ID = courseID

	updated, err := cc.courseService.UpdateCourse(c, course)
	if err != nil {
		switch err {
		case rollcall_errors.ErrCourseNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Course not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update course", err)
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (cc *CourseController) DeleteCourse(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !cc.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	if err := cc.courseService.DeleteCourse(c, courseID); err != nil {
		switch err {
		case rollcall_errors.ErrCourseNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Course not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete course", err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CourseController) AssignTeacher(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !cc.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	if err := cc.courseService.AssignTeacher(c, courseID, c.Param("userId")); err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to assign teacher", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CourseController) UnassignTeacher(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !cc.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	if err := cc.courseService.UnassignTeacher(c, courseID, c.Param("userId")); err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to unassign teacher", err)
		return
	}
	c.Status(http.StatusNoContent)
}
