package model

import "time"

// Progress is the per-student, per-material access/completion record.
// Viewing a material upserts it (TimeSpent++, LastAccessed refreshed)
// without touching IsCompleted; completing always sets IsCompleted.
// swagger:model Progress
type Progress struct {
	BaseModel
	StudentID    uint      `gorm:"index:idx_student_course_material,unique;type:bigint unsigned;not null" json:"studentId"`
	CourseID     uint      `gorm:"index:idx_student_course_material,unique;type:bigint unsigned;not null" json:"courseId"`
	MaterialID   uint      `gorm:"index:idx_student_course_material,unique;type:bigint unsigned;not null" json:"materialId"`
	IsCompleted  bool      `gorm:"default:false" json:"isCompleted"`
	LastAccessed time.Time `json:"lastAccessed"`
	TimeSpent    int       `gorm:"default:0" json:"timeSpent"` // access counter, monotonic
}

func (Progress) TableName() string {
	return "progress"
}

// CourseProgress is the calculator output: completion statistics for one
// student in one course. ProgressPercentage is the raw rounded value;
// stale completed rows can push it past 100 after materials are deleted,
// so anything user-facing goes through util.ClampPercent.
type CourseProgress struct {
	TotalMaterials       int `json:"totalMaterials"`
	CompletedMaterials   int `json:"completedMaterials"`
	TotalAssignments     int `json:"totalAssignments"`
	SubmittedAssignments int `json:"submittedAssignments"`
	TotalItems           int `json:"totalItems"`
	CompletedItems       int `json:"completedItems"`
	ProgressPercentage   int `json:"progressPercentage"`
}
