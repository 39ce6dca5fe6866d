package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"
)

// ProgressService computes per-student completion statistics and serves
// the material view/complete paths. ComputeProgress is read-only and
// safe to call concurrently; every trigger recomputes from the current
// numerator and denominator, so a lost update heals on the next call.
type ProgressService struct {
	MaterialRepo   MaterialRepo
	AssignmentRepo AssignmentRepo
	ProgressRepo   ProgressRepo
	SubmissionRepo SubmissionRepo
	EnrollmentRepo EnrollmentRepo
}

func NewProgressService(materialRepo MaterialRepo, assignmentRepo AssignmentRepo, progressRepo ProgressRepo, submissionRepo SubmissionRepo, enrollmentRepo EnrollmentRepo) *ProgressService {
	return &ProgressService{
		MaterialRepo:   materialRepo,
		AssignmentRepo: assignmentRepo,
		ProgressRepo:   progressRepo,
		SubmissionRepo: submissionRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// ComputeProgress folds material completions and assignment submissions
// into one percentage. Completed counts are filtered against the ids of
// materials/assignments that still exist, so stale rows left behind by
// deletions drop out of the numerator. The percentage is rounded, not
// truncated, and deliberately not clamped here; persist/display sites
// clamp via util.ClampPercent.
func (s *ProgressService) ComputeProgress(studentID, courseID uint) (*model.CourseProgress, error) {
	materialIDs, err := s.MaterialRepo.IDsByCourse(courseID)
	if err != nil {
		return nil, err
	}
	assignmentIDs, err := s.AssignmentRepo.IDsByCourse(courseID)
	if err != nil {
		return nil, err
	}

	completedMaterials, err := s.ProgressRepo.CountCompletedIn(studentID, materialIDs)
	if err != nil {
		return nil, err
	}
	submitted, err := s.SubmissionRepo.CountByStudentIn(studentID, assignmentIDs)
	if err != nil {
		return nil, err
	}

	p := &model.CourseProgress{
		TotalMaterials:       len(materialIDs),
		CompletedMaterials:   int(completedMaterials),
		TotalAssignments:     len(assignmentIDs),
		SubmittedAssignments: int(submitted),
	}
	p.TotalItems = p.TotalMaterials + p.TotalAssignments
	p.CompletedItems = p.CompletedMaterials + p.SubmittedAssignments

	if p.TotalItems > 0 {
		p.ProgressPercentage = int(math.Round(float64(p.CompletedItems) / float64(p.TotalItems) * 100))
	}
	return p, nil
}

// ViewMaterial records an access for an enrolled student: the Progress
// row is upserted with TimeSpent incremented and LastAccessed refreshed,
// leaving IsCompleted untouched. Returns the material.
func (s *ProgressService) ViewMaterial(claims *util.Claims, materialID uint) (*model.Material, *model.Progress, error) {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("material %d: %w", materialID, util.ErrNotFound)
		}
		return nil, nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(claims.UserID, material.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("not enrolled in course %d: %w", material.CourseID, util.ErrForbidden)
		}
		return nil, nil, err
	}
	if enrollment.Status == model.EnrollmentCancelled {
		return nil, nil, fmt.Errorf("enrollment cancelled: %w", util.ErrForbidden)
	}

	progress, err := s.ProgressRepo.UpsertView(claims.UserID, material.CourseID, materialID)
	if err != nil {
		return nil, nil, err
	}
	return material, progress, nil
}

// CompleteMaterial marks a material completed for an enrolled student
// and commits the recomputed enrollment percentage. Re-completing an
// already completed material leaves the row alone and only recomputes.
func (s *ProgressService) CompleteMaterial(claims *util.Claims, materialID uint, enrollmentSvc *EnrollmentService) (*model.CourseProgress, error) {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("material %d: %w", materialID, util.ErrNotFound)
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(claims.UserID, material.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("not enrolled in course %d: %w", material.CourseID, util.ErrForbidden)
		}
		return nil, err
	}
	if enrollment.Status == model.EnrollmentCancelled {
		return nil, fmt.Errorf("enrollment cancelled: %w", util.ErrForbidden)
	}

	existing, err := s.ProgressRepo.FindByStudentAndMaterial(claims.UserID, materialID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing == nil || !existing.IsCompleted {
		if _, err := s.ProgressRepo.UpsertCompleted(claims.UserID, material.CourseID, materialID); err != nil {
			return nil, err
		}
	}

	return enrollmentSvc.RecalculateAndCommit(claims.UserID, material.CourseID)
}

// ListMaterialProgress returns the student's progress rows for a
// course, dropping rows left behind by deleted materials the same way
// ComputeProgress does.
func (s *ProgressService) ListMaterialProgress(studentID, courseID uint) ([]model.Progress, error) {
	rows, err := s.ProgressRepo.ListByStudentAndCourse(studentID, courseID)
	if err != nil {
		return nil, err
	}
	materialIDs, err := s.MaterialRepo.IDsByCourse(courseID)
	if err != nil {
		return nil, err
	}

	alive := make(map[uint]struct{}, len(materialIDs))
	for _, id := range materialIDs {
		alive[id] = struct{}{}
	}
	kept := rows[:0]
	for _, row := range rows {
		if _, ok := alive[row.MaterialID]; ok {
			kept = append(kept, row)
		}
	}
	return kept, nil
}
