package controller

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	ContentService *service.ContentService
}

func NewCourseController(contentService *service.ContentService) *CourseController {
	return &CourseController{ContentService: contentService}
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=draft published archived"`
	IsPublic    bool   `json:"isPublic"`
	Thumbnail   string `json:"thumbnail"`
}

// CourseUpdateRequest takes a pointer for isPublic so an omitted field
// is distinguishable from an explicit false; a partial update must not
// flip a public course private.
type CourseUpdateRequest struct {
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=draft published archived"`
	IsPublic    *bool  `json:"isPublic"`
	Thumbnail   string `json:"thumbnail"`
}

// ListCourses godoc
// @Summary List the course catalog
// @Description Anonymous and student callers see public published courses; tutors additionally see their own, admins see everything.
// @Tags courses
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Title search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	claims := util.GetUserFromContext(ctx)
	filter := repository.CourseFilter{
		Status: model.CourseStatus(ctx.Query("status")),
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	switch {
	case claims == nil:
		filter.PublicOnly = true
		filter.Status = ""
	case claims.Role == model.Admin:
		// no narrowing
	case claims.Role == model.Tutor && ctx.Query("mine") == "true":
		filter.CreatorID = claims.UserID
	default:
		filter.PublicOnly = true
		filter.Status = ""
	}

	courses, total, err := c.ContentService.ListCourses(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	course, err := c.ContentService.GetCourseForViewer(claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// CreateCourse godoc
// @Summary Create a course (tutor/admin)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CourseRequest true "Course payload"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.ContentService.CreateCourse(claims, service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.CourseStatus(req.Status),
		IsPublic:    &req.IsPublic,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.ContentService.UpdateCourse(claims, util.MustParseUint(ctx.Param("id")), service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.CourseStatus(req.Status),
		IsPublic:    req.IsPublic,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Refused with 409 while any enrollment is active below 100% progress. Material files and the thumbnail are cleaned up best effort.
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ContentService.DeleteCourse(claims, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "course deleted"})
}
