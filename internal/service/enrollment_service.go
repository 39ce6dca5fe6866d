package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EnrollmentService owns the enrollment lifecycle: the move from active
// to completed is one-way and committed exactly once; cancellation
// (delete) is terminal from either state.
type EnrollmentService struct {
	EnrollmentRepo EnrollmentRepo
	CourseRepo     CourseRepo
	Progress       *ProgressService
}

func NewEnrollmentService(enrollmentRepo EnrollmentRepo, courseRepo CourseRepo, progress *ProgressService) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Progress:       progress,
	}
}

// Enroll creates the (student, course) enrollment. The course must be
// public and published; a second enrollment is a conflict.
func (s *EnrollmentService) Enroll(claims *util.Claims, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, util.ErrNotFound)
		}
		return nil, err
	}

	if !course.IsPublic || course.Status != model.CoursePublished {
		return nil, fmt.Errorf("course not open for enrollment: %w", util.ErrForbidden)
	}

	if _, err := s.EnrollmentRepo.FindByStudentAndCourse(claims.UserID, courseID); err == nil {
		return nil, fmt.Errorf("already enrolled: %w", util.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: claims.UserID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Cancel deletes an enrollment. The enrolled student, the course owner
// and admins may cancel.
func (s *EnrollmentService) Cancel(claims *util.Claims, enrollmentID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("enrollment %d: %w", enrollmentID, util.ErrNotFound)
		}
		return err
	}

	course, err := s.CourseRepo.FindByID(enrollment.CourseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if !CanTouchEnrollment(claims, enrollment, course) {
		return fmt.Errorf("cannot cancel enrollment %d: %w", enrollmentID, util.ErrForbidden)
	}

	return s.EnrollmentRepo.Delete(enrollmentID)
}

func (s *EnrollmentService) ListMine(claims *util.Claims) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(claims.UserID)
}

func (s *EnrollmentService) ListForCourse(claims *util.Claims, courseID uint) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, util.ErrNotFound)
		}
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("cannot list enrollments: %w", util.ErrForbidden)
	}
	return s.EnrollmentRepo.ListByCourse(courseID)
}

// RecalculateAndCommit recomputes the student's completion percentage
// and persists it. A raw percentage of exactly 100 flips the enrollment
// to completed and stamps completedAt once; the percentage is recomputed
// a second time right before that commit, so two triggers racing at the
// boundary both see a fresh denominator. The completed state is never
// reverted, even if the denominator later grows.
func (s *EnrollmentService) RecalculateAndCommit(studentID, courseID uint) (*model.CourseProgress, error) {
	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no enrollment for student %d in course %d: %w", studentID, courseID, util.ErrNotFound)
		}
		return nil, err
	}

	progress, err := s.Progress.ComputeProgress(studentID, courseID)
	if err != nil {
		return nil, err
	}

	persisted := util.ClampPercent(progress.ProgressPercentage)

	if progress.ProgressPercentage == 100 &&
		enrollment.Status != model.EnrollmentCompleted &&
		enrollment.CompletedAt == nil {
		// re-read the counts immediately before committing the flag
		confirm, err := s.Progress.ComputeProgress(studentID, courseID)
		if err != nil {
			return nil, err
		}
		if confirm.ProgressPercentage == 100 {
			if err := s.EnrollmentRepo.MarkCompleted(enrollment.ID, 100); err != nil {
				return nil, err
			}
			return confirm, nil
		}
		progress = confirm
		persisted = util.ClampPercent(progress.ProgressPercentage)
	}

	if err := s.EnrollmentRepo.UpdateProgress(enrollment.ID, persisted); err != nil {
		return nil, err
	}
	return progress, nil
}
