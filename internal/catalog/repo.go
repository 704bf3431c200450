package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the pricing catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListMaterials(ctx context.Context, activeOnly bool) ([]models.Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	FindMaterialByKey(ctx context.Context, technology, materialKey string) (*models.Material, error)
	CreateMaterial(ctx context.Context, material *models.Material) error
	UpdateMaterial(ctx context.Context, material *models.Material) error
	DeleteMaterial(ctx context.Context, id uuid.UUID) (bool, error)

	ListFinishes(ctx context.Context, activeOnly bool) ([]models.Finish, error)
	GetFinish(ctx context.Context, id uuid.UUID) (*models.Finish, error)
	FindFinishByKey(ctx context.Context, finishKey string) (*models.Finish, error)
	CreateFinish(ctx context.Context, finish *models.Finish) error
	UpdateFinish(ctx context.Context, finish *models.Finish) error
	DeleteFinish(ctx context.Context, id uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListMaterials(ctx context.Context, activeOnly bool) ([]models.Material, error) {
	query := r.db.WithContext(ctx).Model(&models.Material{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var materials []models.Material
	if err := query.Order("technology, material_key").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *repositoryImpl) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *repositoryImpl) FindMaterialByKey(ctx context.Context, technology, materialKey string) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).
		First(&material, "technology = ? AND material_key = ?", technology, materialKey).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *repositoryImpl) CreateMaterial(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *repositoryImpl) UpdateMaterial(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *repositoryImpl) DeleteMaterial(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListFinishes(ctx context.Context, activeOnly bool) ([]models.Finish, error) {
	query := r.db.WithContext(ctx).Model(&models.Finish{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var finishes []models.Finish
	if err := query.Order("finish_key").Find(&finishes).Error; err != nil {
		return nil, err
	}
	return finishes, nil
}

func (r *repositoryImpl) GetFinish(ctx context.Context, id uuid.UUID) (*models.Finish, error) {
	var finish models.Finish
	if err := r.db.WithContext(ctx).First(&finish, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &finish, nil
}

func (r *repositoryImpl) FindFinishByKey(ctx context.Context, finishKey string) (*models.Finish, error) {
	var finish models.Finish
	if err := r.db.WithContext(ctx).First(&finish, "finish_key = ?", finishKey).Error; err != nil {
		return nil, err
	}
	return &finish, nil
}

func (r *repositoryImpl) CreateFinish(ctx context.Context, finish *models.Finish) error {
	return r.db.WithContext(ctx).Create(finish).Error
}

func (r *repositoryImpl) UpdateFinish(ctx context.Context, finish *models.Finish) error {
	return r.db.WithContext(ctx).Save(finish).Error
}

func (r *repositoryImpl) DeleteFinish(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Finish{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
