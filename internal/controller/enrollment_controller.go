package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	ProgressService   *service.ProgressService
	ContentService    *service.ContentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService, progressService *service.ProgressService, contentService *service.ContentService) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentService: enrollmentService,
		ProgressService:   progressService,
		ContentService:    contentService,
	}
}

// Enroll godoc
// @Summary Enroll the calling student in a course
// @Description The course must be public and published. Enrolling twice returns 409.
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 409 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.Enroll(claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// Cancel godoc
// @Summary Cancel an enrollment
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Enrollment id"
// @Success 200 {object} util.Response
// @Router /api/enrollments/{id} [delete]
func (c *EnrollmentController) Cancel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.EnrollmentService.Cancel(claims, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "enrollment cancelled"})
}

// ListMine godoc
// @Summary List the caller's enrollments
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.EnrollmentService.ListMine(claims)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// ListForCourse godoc
// @Summary List the enrollments of a course (owner/admin)
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/courses/{id}/enrollments [get]
func (c *EnrollmentController) ListForCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.EnrollmentService.ListForCourse(claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// CourseProgress godoc
// @Summary Report the caller's computed progress in a course
// @Description Owners and admins may inspect another student via the studentId query parameter. The figures are recomputed from current rows on every call.
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Param studentId query int false "Student to inspect (owner/admin only)"
// @Param detailed query bool false "Include per-material progress rows"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Router /api/courses/{id}/progress [get]
func (c *EnrollmentController) CourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	studentID := claims.UserID
	if raw := ctx.Query("studentId"); raw != "" {
		course, err := c.ContentService.GetCourse(courseID)
		if err != nil {
			util.HandleServiceError(ctx, err)
			return
		}
		if !service.CanMutateCourse(claims, course) {
			util.Forbidden(ctx)
			return
		}
		studentID = util.MustParseUint(raw)
	}

	progress, err := c.ProgressService.ComputeProgress(studentID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// the raw figure may exceed 100 when the denominator shrank after
	// completions; display sites clamp
	progress.ProgressPercentage = util.ClampPercent(progress.ProgressPercentage)

	if ctx.Query("detailed") == "true" {
		rows, err := c.ProgressService.ListMaterialProgress(studentID, courseID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"summary": progress, "materials": rows})
		return
	}
	util.Success(ctx, progress)
}
