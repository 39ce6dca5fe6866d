package repository

import (
	"coursehub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Enrollment{}, id).Error
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("student_id = ?", studentID).
		Order("id DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

// CountBlockingDeletion counts enrollments that block a course delete:
// anything neither completed by status nor at 100%.
func (r *EnrollmentRepository) CountBlockingDeletion(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status <> ? AND progress_percentage < 100", courseID, model.EnrollmentCompleted).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) UpdateProgress(id uint, percentage int) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("progress_percentage", percentage).
		Error
}

// MarkCompleted flips status and stamps completed_at in one update. The
// completed_at guard keeps the timestamp first-write-wins if two
// triggers race at the boundary.
func (r *EnrollmentRepository) MarkCompleted(id uint, percentage int) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("id = ? AND completed_at IS NULL", id).
		Updates(map[string]interface{}{
			"status":              model.EnrollmentCompleted,
			"progress_percentage": percentage,
			"completed_at":        time.Now(),
		}).Error
}
