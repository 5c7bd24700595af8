// api/controller/attendance_controller.go
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

type AttendanceController struct {
	attendanceService service.IAttendanceService
	accessService     service.IAccessService
}

func NewAttendanceController(attendanceService service.IAttendanceService, accessService service.IAccessService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		accessService:     accessService,
	}
}

// RegisterRoutes registers the attendance routes
func (ac *AttendanceController) RegisterRoutes(r *gin.RouterGroup) {
	attendances := r.Group("/attendances")
	{
		attendances.GET("/types", ac.ListTypes)
		attendances.GET("/:id", ac.GetAttendance)
		attendances.POST("", ac.CreateAttendance)
		attendances.PUT("/:id", ac.UpdateAttendance)
		attendances.DELETE("/:id", ac.DeleteAttendance)
		attendances.POST("/:id/checks", ac.CreateCheck)
		attendances.GET("/:id/checks/:checkId", ac.GetCheck)
	}
	courses := r.Group("/courses")
	{
		courses.GET("/:id/attendances", ac.ListCourseAttendances)
		courses.GET("/:id/attendances/current", ac.CurrentAttendance)
	}
}

func (ac *AttendanceController) GetAttendance(c *gin.Context) {
	attendanceID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsAttendanceAccessible(c, attendanceID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	attendance, err := ac.attendanceService.GetAttendance(c, attendanceID)
	if err != nil {
		switch err {
		case rollcall_errors.ErrAttendanceNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Attendance not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to load attendance", err)
		}
		return
	}
	c.JSON(http.StatusOK, attendance)
}

func (ac *AttendanceController) ListCourseAttendances(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	pageNr, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	attendances, err := ac.attendanceService.ListCourseAttendances(c, courseID, pageNr, pageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list attendances", err)
		return
	}
	c.JSON(http.StatusOK, attendances)
}

func (ac *AttendanceController) CurrentAttendance(c *gin.Context) {
	courseID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsCourseAccessible(c, courseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	attendance, err := ac.attendanceService.CurrentAttendance(c, courseID)
	if err != nil {
		switch err {
		case rollcall_errors.ErrAttendanceNotFound:
			util.RespondWithError(c, http.StatusNotFound, "No attendance underway", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to load current attendance", err)
		}
		return
	}
	c.JSON(http.StatusOK, attendance)
}

func (ac *AttendanceController) CreateAttendance(c *gin.Context) {
	var attendance model.CourseAttendance
	if err := c.ShouldBindJSON(&attendance); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid attendance data", err)
		return
	}
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsCourseAccessible(c, attendance.CourseID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	created, err := ac.attendanceService.CreateAttendance(c, attendance)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to create attendance", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ac *AttendanceController) UpdateAttendance(c *gin.Context) {
	attendanceID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsAttendanceAccessible(c, attendanceID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	var attendance model.CourseAttendance
	if err := c.ShouldBindJSON(&attendance); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid attendance data", err)
		return
	}
	attendance.ID = attendanceID

	updated, err := ac.attendanceService.UpdateAttendance(c, attendance)
	if err != nil {
		switch err {
		case rollcall_errors.ErrAttendanceNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Attendance not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update attendance", err)
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (ac *AttendanceController) DeleteAttendance(c *gin.Context) {
	attendanceID := c.Param("id")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsAttendanceAccessible(c, attendanceID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	if err := ac.attendanceService.DeleteAttendance(c, attendanceID); err != nil {
		switch err {
		case rollcall_errors.ErrAttendanceNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Attendance not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete attendance", err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AttendanceController) ListTypes(c *gin.Context) {
	types, err := ac.attendanceService.ListTypes(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list attendance types", err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (ac *AttendanceController) GetCheck(c *gin.Context) {
	checkID := c.Param("checkId")
	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsCheckAccessible(c, checkID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	check, err := ac.attendanceService.GetCheck(c, checkID)
	if err != nil {
		switch err {
		case rollcall_errors.ErrCheckNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Check not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to load check", err)
		}
		return
	}
	c.JSON(http.StatusOK, check)
}

func (ac *AttendanceController) CreateCheck(c *gin.Context) {
	attendanceID := c.Param("id")
	var check model.AttendanceCheck
	if err := c.ShouldBindJSON(&check); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid check data", err)
		return
	}
	check.AttendanceID = attendanceID

	email, err := util.GetUserEmailFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	if !ac.accessService.IsAttendanceAccessible(c, attendanceID, email) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	created, err := ac.attendanceService.CreateCheck(c, check)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to record check", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
