package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.AssignmentSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.DB.First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindByAssignmentAndStudent(assignmentID, studentID uint) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) Update(submission *model.AssignmentSubmission) error {
	return r.DB.Save(submission).Error
}

func (r *SubmissionRepository) ListByAssignment(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var submissions []model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ?", assignmentID).
		Order("id ASC").
		Find(&submissions).Error
	return submissions, err
}

// CountByStudentIn counts the student's submissions against the current
// assignment id set; submissions for deleted assignments fall out.
func (r *SubmissionRepository) CountByStudentIn(studentID uint, assignmentIDs []uint) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("student_id = ? AND assignment_id IN ?", studentID, assignmentIDs).
		Count(&count).Error
	return count, err
}
