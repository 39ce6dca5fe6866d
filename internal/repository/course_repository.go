package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// CourseFilter narrows List; zero values are ignored.
type CourseFilter struct {
	Status     model.CourseStatus
	CreatorID  uint
	PublicOnly bool
	Search     string
	Page       int
	Limit      int
}

func (r *CourseRepository) List(f CourseFilter) ([]model.Course, int64, error) {
	q := r.DB.Model(&model.Course{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CreatorID != 0 {
		q = q.Where("creator_id = ?", f.CreatorID)
	}
	if f.PublicOnly {
		q = q.Where("is_public = ? AND status = ?", true, model.CoursePublished)
	}
	if f.Search != "" {
		q = q.Where("title LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := q.Order("id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&courses).Error
	return courses, total, err
}

// DeleteCascade removes the course and everything hanging off it in one
// transaction. File cleanup is the caller's concern.
func (r *CourseRepository) DeleteCascade(courseID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uint
		if err := tx.Model(&model.Assignment{}).
			Where("course_id = ?", courseID).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}

		if len(assignmentIDs) > 0 {
			if err := tx.Where("assignment_id IN ?", assignmentIDs).
				Delete(&model.AssignmentSubmission{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Material{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.CourseModule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, courseID).Error
	})
}
