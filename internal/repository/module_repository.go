package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) Update(module *model.CourseModule) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.CourseModule{}, id).Error
}

// ListByCourse orders by order_index with id as the tiebreak, so
// duplicate indexes come out in creation order.
func (r *ModuleRepository) ListByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ?", courseID).
		Order("order_index ASC, id ASC").
		Find(&modules).Error
	return modules, err
}
