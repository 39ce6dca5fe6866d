package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment grants a student access to a course and tracks aggregate
// completion. ProgressPercentage is derived from Progress/submission
// counts and recomputed at every trigger; CompletedAt is set exactly
// once when the percentage first reaches 100 and is never cleared.
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID          uint             `gorm:"index:idx_student_course,unique;type:bigint unsigned;not null" json:"studentId"`
	CourseID           uint             `gorm:"index:idx_student_course,unique;type:bigint unsigned;not null" json:"courseId"`
	Status             EnrollmentStatus `gorm:"type:enum('active','completed','cancelled');default:'active'" json:"status"`
	ProgressPercentage int              `gorm:"default:0" json:"progressPercentage"`
	CompletedAt        *time.Time       `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
