package model

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      CourseStatus `gorm:"type:enum('draft','published','archived');default:'draft'" json:"status"`
	IsPublic    bool         `gorm:"default:false" json:"isPublic"`
	CreatorID   uint         `gorm:"index;type:bigint unsigned;not null" json:"creatorId"`
	Price       float64      `gorm:"default:0" json:"price"` // payments are out of scope, always 0
	Thumbnail   string       `gorm:"size:255" json:"thumbnail"`
}

func (Course) TableName() string {
	return "courses"
}
