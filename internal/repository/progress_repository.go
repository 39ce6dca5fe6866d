package repository

import (
	"coursehub_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByStudentAndMaterial(studentID, materialID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("student_id = ? AND material_id = ?", studentID, materialID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertView records an access: one row per (student, material), with
// time_spent incremented and last_accessed refreshed on every call.
// IsCompleted is left alone.
func (r *ProgressRepository) UpsertView(studentID, courseID, materialID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND material_id = ?", studentID, materialID).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = model.Progress{
				StudentID:    studentID,
				CourseID:     courseID,
				MaterialID:   materialID,
				TimeSpent:    1,
				LastAccessed: time.Now(),
			}
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}

		progress.TimeSpent++
		progress.LastAccessed = time.Now()
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertCompleted records an access and always sets is_completed.
func (r *ProgressRepository) UpsertCompleted(studentID, courseID, materialID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND material_id = ?", studentID, materialID).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = model.Progress{
				StudentID:    studentID,
				CourseID:     courseID,
				MaterialID:   materialID,
				IsCompleted:  true,
				TimeSpent:    1,
				LastAccessed: time.Now(),
			}
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}

		progress.IsCompleted = true
		progress.TimeSpent++
		progress.LastAccessed = time.Now()
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CountCompletedIn counts completed rows against the current material id
// set, so rows pointing at deleted materials are excluded.
func (r *ProgressRepository) CountCompletedIn(studentID uint, materialIDs []uint) (int64, error) {
	if len(materialIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("student_id = ? AND is_completed = ? AND material_id IN ?", studentID, true, materialIDs).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListByStudentAndCourse(studentID, courseID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		Find(&rows).Error
	return rows, err
}
