package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService enforces the structural integrity of the course,
// module and material hierarchy: ordering, deletion guards, and the
// advisory file cleanup that keeps the object store in step with the
// database. The database is the source of truth; file deletion failures
// are logged and never block or roll back a row delete.
type ContentService struct {
	CourseRepo     CourseRepo
	ModuleRepo     ModuleRepo
	MaterialRepo   MaterialRepo
	EnrollmentRepo EnrollmentRepo
	Storage        FileStore
	Cfg            *config.Config
}

func NewContentService(courseRepo CourseRepo, moduleRepo ModuleRepo, materialRepo MaterialRepo, enrollmentRepo EnrollmentRepo, storage FileStore, cfg *config.Config) *ContentService {
	return &ContentService{
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		MaterialRepo:   materialRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
		Cfg:            cfg,
	}
}

// ---- courses ----

// CourseInput carries nil for fields the caller left out, so a partial
// update never drags a sibling field back to its zero value.
type CourseInput struct {
	Title       string
	Description string
	Status      model.CourseStatus
	IsPublic    *bool
	Thumbnail   string
}

func (s *ContentService) CreateCourse(claims *util.Claims, in CourseInput) (*model.Course, error) {
	status := in.Status
	if status == "" {
		status = model.CourseDraft
	}
	course := &model.Course{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		IsPublic:    in.IsPublic != nil && *in.IsPublic,
		CreatorID:   claims.UserID,
		Thumbnail:   in.Thumbnail,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	return course, nil
}

func (s *ContentService) ListCourses(f repository.CourseFilter) ([]model.Course, int64, error) {
	return s.CourseRepo.List(f)
}

// GetCourseForViewer resolves a course and enforces read visibility,
// consulting the viewer's enrollment for private or unpublished courses.
// Hidden courses surface as not found rather than forbidden.
func (s *ContentService) GetCourseForViewer(claims *util.Claims, id uint) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}
	enrolled := false
	if claims != nil {
		if e, err := s.EnrollmentRepo.FindByStudentAndCourse(claims.UserID, id); err == nil && e != nil && e.Status != model.EnrollmentCancelled {
			enrolled = true
		}
	}
	if !CanViewCourse(claims, course, enrolled) {
		return nil, fmt.Errorf("course %d: %w", id, util.ErrNotFound)
	}
	return course, nil
}

func (s *ContentService) UpdateCourse(claims *util.Claims, id uint, in CourseInput) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("cannot update course %d: %w", id, util.ErrForbidden)
	}

	if in.Title != "" {
		course.Title = in.Title
	}
	if in.Description != "" {
		course.Description = in.Description
	}
	if in.Status != "" {
		course.Status = in.Status
	}
	if in.IsPublic != nil {
		course.IsPublic = *in.IsPublic
	}
	if in.Thumbnail != "" {
		// replace the old thumbnail object, best effort
		if course.Thumbnail != "" && course.Thumbnail != in.Thumbnail {
			s.advisoryDelete(course.Thumbnail)
		}
		course.Thumbnail = in.Thumbnail
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse refuses while any enrollment is still in flight (neither
// completed by status nor at 100%). On success every non-link material
// file plus the thumbnail is deleted from storage after the row cascade;
// storage failures only get logged.
func (s *ContentService) DeleteCourse(claims *util.Claims, id uint) error {
	course, err := s.GetCourse(id)
	if err != nil {
		return err
	}
	if !CanMutateCourse(claims, course) {
		return fmt.Errorf("cannot delete course %d: %w", id, util.ErrForbidden)
	}

	blocking, err := s.EnrollmentRepo.CountBlockingDeletion(id)
	if err != nil {
		return err
	}
	if blocking > 0 {
		return fmt.Errorf("course has %d active enrollment(s): %w", blocking, util.ErrConflict)
	}

	refs, err := s.MaterialRepo.FileRefsByCourse(id)
	if err != nil {
		return err
	}
	if course.Thumbnail != "" {
		refs = append(refs, course.Thumbnail)
	}

	if err := s.CourseRepo.DeleteCascade(id); err != nil {
		return err
	}

	for _, ref := range refs {
		s.advisoryDelete(ref)
	}
	return nil
}

// ---- modules ----

type ModuleInput struct {
	Title       string
	Description string
	OrderIndex  *int
}

// CreateModule attaches a module to an existing course. Duplicate order
// indexes are accepted; listings break ties by id.
func (s *ContentService) CreateModule(claims *util.Claims, courseID uint, in ModuleInput) (*model.CourseModule, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("cannot add module to course %d: %w", courseID, util.ErrForbidden)
	}

	orderIndex := 0
	if in.OrderIndex != nil {
		orderIndex = *in.OrderIndex
	}
	module := &model.CourseModule{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		OrderIndex:  orderIndex,
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) UpdateModule(claims *util.Claims, id uint, in ModuleInput) (*model.CourseModule, error) {
	module, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("module %d: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	course, err := s.GetCourse(module.CourseID)
	if err != nil {
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("cannot update module %d: %w", id, util.ErrForbidden)
	}

	if in.Title != "" {
		module.Title = in.Title
	}
	if in.Description != "" {
		module.Description = in.Description
	}
	if in.OrderIndex != nil {
		module.OrderIndex = *in.OrderIndex
	}

	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) ListModules(claims *util.Claims, courseID uint) ([]model.CourseModule, error) {
	if _, err := s.GetCourseForViewer(claims, courseID); err != nil {
		return nil, err
	}
	return s.ModuleRepo.ListByCourse(courseID)
}

// DeleteModule refuses while the module still holds materials.
func (s *ContentService) DeleteModule(claims *util.Claims, id uint) error {
	module, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("module %d: %w", id, util.ErrNotFound)
		}
		return err
	}
	course, err := s.GetCourse(module.CourseID)
	if err != nil {
		return err
	}
	if !CanMutateCourse(claims, course) {
		return fmt.Errorf("cannot delete module %d: %w", id, util.ErrForbidden)
	}

	count, err := s.MaterialRepo.CountByModule(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("module has %d material(s): %w", count, util.ErrConflict)
	}

	return s.ModuleRepo.Delete(id)
}

// ---- materials ----

type MaterialInput struct {
	ModuleID    *uint
	Title       string
	Description string
	Type        model.MaterialType
	FileURL     string
	Content     string
	OrderIndex  *int
}

func validateMaterialInput(in MaterialInput) error {
	// link materials are nothing without their URL; every other type
	// may be content-only
	if in.Type == model.MaterialLink && strings.TrimSpace(in.FileURL) == "" {
		return fmt.Errorf("link materials require a fileUrl: %w", util.ErrValidation)
	}
	return nil
}

func (s *ContentService) CreateMaterial(claims *util.Claims, courseID uint, in MaterialInput) (*model.Material, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("cannot add material to course %d: %w", courseID, util.ErrForbidden)
	}
	if err := validateMaterialInput(in); err != nil {
		return nil, err
	}
	if in.ModuleID != nil {
		module, err := s.ModuleRepo.FindByID(*in.ModuleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("module %d: %w", *in.ModuleID, util.ErrNotFound)
			}
			return nil, err
		}
		if module.CourseID != courseID {
			return nil, fmt.Errorf("module %d belongs to another course: %w", *in.ModuleID, util.ErrValidation)
		}
	}

	orderIndex := 0
	if in.OrderIndex != nil {
		orderIndex = *in.OrderIndex
	}
	material := &model.Material{
		CourseID:    courseID,
		ModuleID:    in.ModuleID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		FileURL:     in.FileURL,
		Content:     in.Content,
		OrderIndex:  orderIndex,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *ContentService) UpdateMaterial(claims *util.Claims, id uint, in MaterialInput) (*model.Material, error) {
	material, err := s.MaterialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("material %d: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	course, err := s.GetCourse(material.CourseID)
	if err != nil {
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("cannot update material %d: %w", id, util.ErrForbidden)
	}

	if in.Type != "" {
		material.Type = in.Type
	}
	if in.Title != "" {
		material.Title = in.Title
	}
	if in.Description != "" {
		material.Description = in.Description
	}
	if in.FileURL != "" {
		material.FileURL = in.FileURL
	}
	if in.Content != "" {
		material.Content = in.Content
	}
	if in.OrderIndex != nil {
		material.OrderIndex = *in.OrderIndex
	}
	if in.ModuleID != nil {
		material.ModuleID = in.ModuleID
	}

	if material.Type == model.MaterialLink && strings.TrimSpace(material.FileURL) == "" {
		return nil, fmt.Errorf("link materials require a fileUrl: %w", util.ErrValidation)
	}

	if err := s.MaterialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

// ListMaterials returns the course materials in display order,
// narrowed to one module when moduleID is non-zero.
func (s *ContentService) ListMaterials(claims *util.Claims, courseID, moduleID uint) ([]model.Material, error) {
	if _, err := s.GetCourseForViewer(claims, courseID); err != nil {
		return nil, err
	}
	if moduleID != 0 {
		module, err := s.ModuleRepo.FindByID(moduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("module %d: %w", moduleID, util.ErrNotFound)
			}
			return nil, err
		}
		if module.CourseID != courseID {
			return nil, fmt.Errorf("module %d: %w", moduleID, util.ErrNotFound)
		}
		return s.MaterialRepo.ListByModule(moduleID)
	}
	return s.MaterialRepo.ListByCourse(courseID)
}

func (s *ContentService) GetMaterial(id uint) (*model.Material, error) {
	material, err := s.MaterialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("material %d: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	return material, nil
}

// DeleteMaterial removes the backing file first (best effort, skipped
// for links) and then the row.
func (s *ContentService) DeleteMaterial(claims *util.Claims, id uint) error {
	material, err := s.GetMaterial(id)
	if err != nil {
		return err
	}
	course, err := s.GetCourse(material.CourseID)
	if err != nil {
		return err
	}
	if !CanMutateCourse(claims, course) {
		return fmt.Errorf("cannot delete material %d: %w", id, util.ErrForbidden)
	}

	if material.Type != model.MaterialLink && material.FileURL != "" {
		s.advisoryDelete(material.FileURL)
	}

	return s.MaterialRepo.Delete(id)
}

func (s *ContentService) advisoryDelete(ref string) {
	if !s.Storage.Delete(context.Background(), ref) {
		logger.Log.Warn("file cleanup skipped or failed", zap.String("ref", ref))
	}
}

// ---- uploads ----

// UploadMaterialFile stores an uploaded file and returns its storage
// reference. Ownership is checked only when a courseID is supplied; an
// unscoped upload goes through without one.
func (s *ContentService) UploadMaterialFile(ctx context.Context, claims *util.Claims, courseID uint, file *multipart.FileHeader) (string, *util.VideoInfo, error) {
	if courseID != 0 {
		course, err := s.GetCourse(courseID)
		if err != nil {
			return "", nil, err
		}
		if !CanMutateCourse(claims, course) {
			return "", nil, fmt.Errorf("cannot upload to course %d: %w", courseID, util.ErrForbidden)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	allowed := []string{util.MimeVideo, util.MimeImage, util.MimeAudio, util.MimePDF, "text/plain", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip", util.MimeOctetStream}
	mimeType, err := util.ValidateMimeType(src, allowed)
	if err != nil {
		return "", nil, fmt.Errorf("%v: %w", err, util.ErrValidation)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ref, err := s.Storage.Store(ctx, util.FolderMaterials, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", nil, err
	}

	// containers like mkv and avi often sniff as octet-stream; the
	// extension decides whether they still get probed
	var info *util.VideoInfo
	if (util.IsVideo(mimeType) || util.HasVideoExtension(file.Filename)) && s.Cfg.Storage.Type == util.StorageLocal {
		// local mode keeps the file on disk, probe it in place
		local := filepath.Join(s.Cfg.Storage.LocalPath, localRefFromURL(s.Cfg, ref))
		if _, statErr := os.Stat(local); statErr == nil {
			if probed, probeErr := util.GetVideoInfo(local); probeErr != nil {
				logger.Log.Warn("video probe failed", zap.String("ref", ref), zap.Error(probeErr))
			} else {
				info = probed
			}
		}
	}

	return ref, info, nil
}

// UploadThumbnail stores a course thumbnail into the images folder,
// checking ownership when scoped to a course.
func (s *ContentService) UploadThumbnail(ctx context.Context, claims *util.Claims, courseID uint, file *multipart.FileHeader) (string, error) {
	if courseID != 0 {
		course, err := s.GetCourse(courseID)
		if err != nil {
			return "", err
		}
		if !CanMutateCourse(claims, course) {
			return "", fmt.Errorf("cannot upload to course %d: %w", courseID, util.ErrForbidden)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return "", fmt.Errorf("%v: %w", err, util.ErrValidation)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ref, err := s.Storage.Store(ctx, util.FolderImages, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	if courseID != 0 {
		course, err := s.GetCourse(courseID)
		if err != nil {
			return "", err
		}
		if course.Thumbnail != "" {
			s.advisoryDelete(course.Thumbnail)
		}
		course.Thumbnail = ref
		if err := s.CourseRepo.Update(course); err != nil {
			return "", err
		}
	}
	return ref, nil
}

// localRefFromURL converts a local-mode reference (full serving URL)
// back to its path under the uploads dir.
func localRefFromURL(cfg *config.Config, ref string) string {
	prefix := strings.TrimRight(cfg.Storage.BaseURL, "/") + "/uploads/"
	return filepath.FromSlash(strings.TrimPrefix(ref, prefix))
}
