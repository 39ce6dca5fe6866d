package controller

import (
	"errors"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type MaterialController struct {
	ContentService    *service.ContentService
	ProgressService   *service.ProgressService
	EnrollmentService *service.EnrollmentService
	RDB               *redis.Client
}

func NewMaterialController(contentService *service.ContentService, progressService *service.ProgressService, enrollmentService *service.EnrollmentService, rdb *redis.Client) *MaterialController {
	return &MaterialController{
		ContentService:    contentService,
		ProgressService:   progressService,
		EnrollmentService: enrollmentService,
		RDB:               rdb,
	}
}

type MaterialRequest struct {
	ModuleID    *uint  `json:"moduleId"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required,oneof=video pdf document audio image link"`
	FileURL     string `json:"fileUrl"`
	Content     string `json:"content"`
	OrderIndex  int    `json:"orderIndex" binding:"min=0"`
}

// MaterialUpdateRequest takes a pointer for orderIndex; an omitted
// field keeps the stored position instead of resetting it to zero.
type MaterialUpdateRequest struct {
	ModuleID    *uint  `json:"moduleId"`
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"omitempty,oneof=video pdf document audio image link"`
	FileURL     string `json:"fileUrl"`
	Content     string `json:"content"`
	OrderIndex  *int   `json:"orderIndex" binding:"omitempty,min=0"`
}

// ListMaterials godoc
// @Summary List the materials of a course in display order
// @Tags materials
// @Produce json
// @Param id path int true "Course id"
// @Param moduleId query int false "Narrow to one module"
// @Success 200 {object} util.Response{data=[]model.Material}
// @Router /api/courses/{id}/materials [get]
func (c *MaterialController) ListMaterials(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	materials, err := c.ContentService.ListMaterials(claims, util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Query("moduleId")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// GetMaterial godoc
// @Summary Fetch a material, recording an access for enrolled students
// @Description Enrolled students get a progress row upserted (time spent incremented, last access refreshed). Owners, admins and unenrolled viewers of public courses read without progress tracking.
// @Tags materials
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Material id"
// @Success 200 {object} util.Response
// @Router /api/materials/{id} [get]
func (c *MaterialController) GetMaterial(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	material, err := c.ContentService.GetMaterial(id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	if _, err := c.ContentService.GetCourseForViewer(claims, material.CourseID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	// progress is tracked only for enrolled students; everyone else
	// reads the material without a side effect
	var progress *model.Progress
	if claims != nil && claims.Role == model.Student {
		if _, p, err := c.ProgressService.ViewMaterial(claims, id); err == nil {
			progress = p
		} else if !errors.Is(err, util.ErrForbidden) {
			util.HandleServiceError(ctx, err)
			return
		}
	}

	util.Success(ctx, gin.H{"material": material, "progress": progress})
}

// CompleteMaterial godoc
// @Summary Mark a material completed for the calling student
// @Description Idempotent; re-completing changes nothing. The enrollment percentage is recomputed and committed, flipping the enrollment to completed the first time it reaches 100.
// @Tags materials
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Material id"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Router /api/materials/{id}/complete [post]
func (c *MaterialController) CompleteMaterial(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.CompleteMaterial(claims, util.MustParseUint(ctx.Param("id")), c.EnrollmentService)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

func (c *MaterialController) CreateMaterial(ctx *gin.Context) {
	var req MaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	material, err := c.ContentService.CreateMaterial(claims, util.MustParseUint(ctx.Param("id")), service.MaterialInput{
		ModuleID:    req.ModuleID,
		Title:       req.Title,
		Description: req.Description,
		Type:        model.MaterialType(req.Type),
		FileURL:     req.FileURL,
		Content:     req.Content,
		OrderIndex:  &req.OrderIndex,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

func (c *MaterialController) UpdateMaterial(ctx *gin.Context) {
	var req MaterialUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	material, err := c.ContentService.UpdateMaterial(claims, util.MustParseUint(ctx.Param("id")), service.MaterialInput{
		ModuleID:    req.ModuleID,
		Title:       req.Title,
		Description: req.Description,
		Type:        model.MaterialType(req.Type),
		FileURL:     req.FileURL,
		Content:     req.Content,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, material)
}

func (c *MaterialController) DeleteMaterial(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ContentService.DeleteMaterial(claims, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "material deleted"})
}

// UploadFile godoc
// @Summary Upload a material file
// @Description Stores the file through the configured backend and returns the storage reference. Video files stored locally get probed for duration and resolution.
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "File"
// @Param courseId formData int false "Course to scope the ownership check to"
// @Success 200 {object} util.Response
// @Router /api/materials/upload [post]
func (c *MaterialController) UploadFile(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	var courseID uint
	if raw := ctx.PostForm("courseId"); raw != "" {
		courseID = util.MustParseUint(raw)
	}

	claims := util.GetUserFromContext(ctx)
	ref, info, err := c.ContentService.UploadMaterialFile(ctx.Request.Context(), claims, courseID, file)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	resp := gin.H{"url": ref, "size": file.Size}
	if info != nil {
		resp["duration"] = info.Duration
		resp["width"] = info.Width
		resp["height"] = info.Height
	}
	logger.Log.Info("material file uploaded",
		zap.String("ref", ref),
		zap.Int64("size", file.Size),
		zap.Uint("userId", claims.UserID))
	util.Success(ctx, resp)
}

// UploadThumbnail godoc
// @Summary Upload a course thumbnail image
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Image file"
// @Param courseId formData int false "Course to attach the thumbnail to"
// @Success 200 {object} util.Response
// @Router /api/materials/upload/thumbnail [post]
func (c *MaterialController) UploadThumbnail(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	var courseID uint
	if raw := ctx.PostForm("courseId"); raw != "" {
		courseID = util.MustParseUint(raw)
	}

	claims := util.GetUserFromContext(ctx)
	ref, err := c.ContentService.UploadThumbnail(ctx.Request.Context(), claims, courseID, file)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": ref})
}

// UploadProgressStatus godoc
// @Summary Poll the progress of a large streaming upload
// @Description Reports the percentage recorded by the streaming uploader, -1 for unknown references or when the progress key has expired.
// @Tags materials
// @Produce json
// @Security ApiKeyAuth
// @Param ref query string true "Storage reference returned by the upload"
// @Success 200 {object} util.Response
// @Router /api/materials/upload/progress [get]
func (c *MaterialController) UploadProgressStatus(ctx *gin.Context) {
	ref := ctx.Query("ref")
	if ref == "" {
		util.BadRequest(ctx, "ref is required")
		return
	}
	pct := service.UploadProgress(ctx.Request.Context(), c.RDB, ref)
	util.Success(ctx, gin.H{"ref": ref, "percent": pct})
}
