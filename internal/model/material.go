package model

type MaterialType string

const (
	MaterialVideo    MaterialType = "video"
	MaterialPDF      MaterialType = "pdf"
	MaterialDocument MaterialType = "document"
	MaterialAudio    MaterialType = "audio"
	MaterialImage    MaterialType = "image"
	MaterialLink     MaterialType = "link"
)

// Material is a single piece of course content, optionally grouped
// under a module. FileURL is mandatory for link materials and optional
// for every other type (inline Content only).
// swagger:model Material
type Material struct {
	BaseModel
	CourseID    uint         `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	ModuleID    *uint        `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Type        MaterialType `gorm:"type:enum('video','pdf','document','audio','image','link');not null" json:"type"`
	FileURL     string       `gorm:"size:512" json:"fileUrl"`
	Content     string       `gorm:"type:text" json:"content"`
	OrderIndex  int          `gorm:"default:0" json:"orderIndex"`
	Duration    float64      `gorm:"default:0" json:"duration"` // seconds, videos only
	Size        int64        `gorm:"default:0" json:"size"`     // bytes
	Format      string       `gorm:"size:50" json:"format"`
}

func (Material) TableName() string {
	return "materials"
}
