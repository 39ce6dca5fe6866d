package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(material *model.Material) error {
	return r.DB.Create(material).Error
}

func (r *MaterialRepository) FindByID(id uint) (*model.Material, error) {
	var material model.Material
	err := r.DB.First(&material, id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) Update(material *model.Material) error {
	return r.DB.Save(material).Error
}

func (r *MaterialRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Material{}, id).Error
}

func (r *MaterialRepository) ListByCourse(courseID uint) ([]model.Material, error) {
	var materials []model.Material
	err := r.DB.Where("course_id = ?", courseID).
		Order("order_index ASC, id ASC").
		Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) ListByModule(moduleID uint) ([]model.Material, error) {
	var materials []model.Material
	err := r.DB.Where("module_id = ?", moduleID).
		Order("order_index ASC, id ASC").
		Find(&materials).Error
	return materials, err
}

// IDsByCourse returns the ids of materials currently present; the
// progress calculator filters historical completion rows against it.
func (r *MaterialRepository) IDsByCourse(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Material{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *MaterialRepository) CountByModule(moduleID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Material{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error
	return count, err
}

// FileRefsByCourse collects the storage references of every non-link
// material with a file attached, for cleanup on course delete.
func (r *MaterialRepository) FileRefsByCourse(courseID uint) ([]string, error) {
	var refs []string
	err := r.DB.Model(&model.Material{}).
		Where("course_id = ? AND type <> ? AND file_url <> ''", courseID, model.MaterialLink).
		Pluck("file_url", &refs).Error
	return refs, err
}
