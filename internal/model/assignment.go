package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	CourseID    uint      `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `json:"dueDate"`
	MaxScore    float64   `gorm:"default:100" json:"maxScore"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// AssignmentSubmission is unique per (assignment, student): at most one
// submission per student, no resubmission path. Only grading mutates it.
// swagger:model AssignmentSubmission
type AssignmentSubmission struct {
	BaseModel
	AssignmentID uint             `gorm:"index:idx_assignment_student,unique;type:bigint unsigned;not null" json:"assignmentId"`
	StudentID    uint             `gorm:"index:idx_assignment_student,unique;type:bigint unsigned;not null" json:"studentId"`
	Content      string           `gorm:"type:text" json:"content"`
	FileURL      string           `gorm:"size:512" json:"fileUrl"`
	Status       SubmissionStatus `gorm:"type:enum('submitted','graded');default:'submitted'" json:"status"`
	Score        *float64         `json:"score"`
	Feedback     string           `gorm:"type:text" json:"feedback"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
