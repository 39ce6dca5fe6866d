package controller

import (
	"time"

	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	ContentService    *service.ContentService
}

func NewAssignmentController(assignmentService *service.AssignmentService, contentService *service.ContentService) *AssignmentController {
	return &AssignmentController{
		AssignmentService: assignmentService,
		ContentService:    contentService,
	}
}

type AssignmentRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	MaxScore    float64   `json:"maxScore" binding:"omitempty,gt=0"`
}

type AssignmentUpdateRequest struct {
	Title       string    `json:"title" binding:"omitempty,max=255"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	MaxScore    float64   `json:"maxScore" binding:"omitempty,gt=0"`
}

type SubmissionRequest struct {
	Content string `json:"content"`
	FileURL string `json:"fileUrl"`
}

type GradeRequest struct {
	Score    *float64 `json:"score" binding:"required"`
	Feedback string   `json:"feedback"`
}

// ListAssignments godoc
// @Summary List the assignments of a course
// @Tags assignments
// @Produce json
// @Param id path int true "Course id"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))
	if _, err := c.ContentService.GetCourseForViewer(claims, courseID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	assignments, err := c.AssignmentService.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	assignment, err := c.AssignmentService.Create(claims, util.MustParseUint(ctx.Param("id")), service.AssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    req.MaxScore,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	var req AssignmentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	assignment, err := c.AssignmentService.Update(claims, util.MustParseUint(ctx.Param("id")), service.AssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    req.MaxScore,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.AssignmentService.Delete(claims, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "assignment deleted"})
}

// Submit godoc
// @Summary Submit work for an assignment
// @Description One submission per student per assignment; a second attempt returns 409, as does submitting past the due date. The response carries the recomputed course progress.
// @Tags assignments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment id"
// @Param request body SubmissionRequest true "Submission payload"
// @Success 201 {object} util.Response{data=service.SubmissionResult}
// @Failure 409 {object} util.Response
// @Router /api/assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	var req SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.AssignmentService.Submit(claims, util.MustParseUint(ctx.Param("id")), req.Content, req.FileURL)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// UploadSubmissionFile godoc
// @Summary Upload an attachment for an assignment submission
// @Description Stores the file and returns the reference to send as fileUrl when submitting. Enrolled students only.
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment id"
// @Param file formData file true "Attachment"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id}/upload [post]
func (c *AssignmentController) UploadSubmissionFile(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	ref, err := c.AssignmentService.UploadSubmissionFile(ctx.Request.Context(), claims, util.MustParseUint(ctx.Param("id")), file)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": ref, "size": file.Size})
}

// Grade godoc
// @Summary Grade a submission (owner/admin)
// @Tags assignments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Submission id"
// @Param request body GradeRequest true "Score and feedback"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/submissions/{id}/grade [put]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	submission, err := c.AssignmentService.Grade(claims, util.MustParseUint(ctx.Param("id")), *req.Score, req.Feedback)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// ListSubmissions godoc
// @Summary List the submissions for an assignment (owner/admin)
// @Tags assignments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment id"
// @Success 200 {object} util.Response{data=[]model.AssignmentSubmission}
// @Router /api/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submissions, err := c.AssignmentService.ListSubmissions(claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// GetMySubmission godoc
// @Summary Fetch the caller's submission for an assignment
// @Tags assignments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment id"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/assignments/{id}/submission [get]
func (c *AssignmentController) GetMySubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submission, err := c.AssignmentService.GetMySubmission(claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
