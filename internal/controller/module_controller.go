package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ContentService *service.ContentService
}

func NewModuleController(contentService *service.ContentService) *ModuleController {
	return &ModuleController{ContentService: contentService}
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	OrderIndex  int    `json:"orderIndex" binding:"min=0"`
}

// ModuleUpdateRequest takes a pointer for orderIndex; an omitted field
// keeps the stored position instead of resetting it to zero.
type ModuleUpdateRequest struct {
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"orderIndex" binding:"omitempty,min=0"`
}

// ListModules godoc
// @Summary List the modules of a course in display order
// @Tags modules
// @Produce json
// @Param id path int true "Course id"
// @Success 200 {object} util.Response{data=[]model.CourseModule}
// @Router /api/courses/{id}/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	modules, err := c.ContentService.ListModules(claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	module, err := c.ContentService.CreateModule(claims, util.MustParseUint(ctx.Param("id")), service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  &req.OrderIndex,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	var req ModuleUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	module, err := c.ContentService.UpdateModule(claims, util.MustParseUint(ctx.Param("id")), service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary Delete an empty module
// @Description Refused with 409 while the module still contains materials.
// @Tags modules
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ContentService.DeleteModule(claims, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "module deleted"})
}
