package quotes

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/pagination"
)

// Repository exposes persistence helpers for quotations and the number
// counter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, quotation *models.Quotation) error
	GetByNumber(ctx context.Context, number string) (*models.Quotation, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Quotation, *pagination.Cursor, error)
	DeleteByNumber(ctx context.Context, number string) (bool, error)

	GetCounter(ctx context.Context, name string) (*models.QuotationCounter, error)
	SeedCounter(ctx context.Context, name string, value int64) error
	CompareAndSetCounter(ctx context.Context, name string, oldValue, newValue int64) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a quotations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, quotation *models.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *repositoryImpl) GetByNumber(ctx context.Context, number string) (*models.Quotation, error) {
	var quotation models.Quotation
	if err := r.db.WithContext(ctx).First(&quotation, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *repositoryImpl) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Quotation, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).Model(&models.Quotation{})
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var quotations []models.Quotation
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&quotations).Error; err != nil {
		return nil, nil, err
	}

	if len(quotations) > normalized {
		next := quotations[normalized]
		quotations = quotations[:normalized]
		return quotations, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return quotations, nil, nil
}

func (r *repositoryImpl) DeleteByNumber(ctx context.Context, number string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Quotation{}, "number = ?", number)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) GetCounter(ctx context.Context, name string) (*models.QuotationCounter, error) {
	var counter models.QuotationCounter
	if err := r.db.WithContext(ctx).First(&counter, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *repositoryImpl) SeedCounter(ctx context.Context, name string, value int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&models.QuotationCounter{Name: name, Value: value}).Error
}

// CompareAndSetCounter advances the counter only when it still holds
// oldValue, reporting whether the swap won.
func (r *repositoryImpl) CompareAndSetCounter(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QuotationCounter{}).
		Where("name = ? AND value = ?", name, oldValue).
		UpdateColumn("value", newValue)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
