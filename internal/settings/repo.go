package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
)

// Repository persists keyed JSON configuration documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, key string) (*models.PricingSetting, error)
	Upsert(ctx context.Context, setting *models.PricingSetting) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Get(ctx context.Context, key string) (*models.PricingSetting, error) {
	var setting models.PricingSetting
	if err := r.db.WithContext(ctx).First(&setting, "doc_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repositoryImpl) Upsert(ctx context.Context, setting *models.PricingSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
		}).
		Create(setting).Error
}
