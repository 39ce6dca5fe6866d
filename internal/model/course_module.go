package model

// CourseModule is an ordered grouping of materials within a course.
// OrderIndex is not unique; listings order by order_index then id.
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID    uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
