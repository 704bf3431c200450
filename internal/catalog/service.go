package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
)

// Service defines catalog management and read operations.
type Service interface {
	Options(ctx context.Context) (*OptionsResult, error)
	Snapshot(ctx context.Context, minimum pricing.MinimumPriceRule) (pricing.Catalog, error)

	ListMaterials(ctx context.Context) ([]models.Material, error)
	CreateMaterial(ctx context.Context, input MaterialInput) (*models.Material, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, input MaterialInput) (*models.Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error

	ListFinishes(ctx context.Context) ([]models.Finish, error)
	CreateFinish(ctx context.Context, input FinishInput) (*models.Finish, error)
	UpdateFinish(ctx context.Context, id uuid.UUID, input FinishInput) (*models.Finish, error)
	DeleteFinish(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// MaterialInput carries an admin material write.
type MaterialInput struct {
	Technology   string          `json:"technology" validate:"required"`
	MaterialKey  string          `json:"materialKey" validate:"required"`
	DisplayName  string          `json:"displayName" validate:"required"`
	DensityGCC   decimal.Decimal `json:"densityGCC" validate:"required"`
	PricePerGram decimal.Decimal `json:"pricePerGram" validate:"required"`
	IsActive     *bool           `json:"isActive"`
}

// FinishInput carries an admin finish write.
type FinishInput struct {
	FinishKey      string          `json:"finishKey" validate:"required"`
	DisplayName    string          `json:"displayName" validate:"required"`
	CostMultiplier decimal.Decimal `json:"costMultiplier" validate:"required"`
	IsActive       *bool           `json:"isActive"`
}

// OptionsResult is the customer-facing configuration surface.
type OptionsResult struct {
	Technologies []enums.Technology `json:"technologies"`
	Materials    []models.Material  `json:"materials"`
	Finishes     []models.Finish    `json:"finishes"`
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Options(ctx context.Context) (*OptionsResult, error) {
	materials, err := s.repo.ListMaterials(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials")
	}
	finishes, err := s.repo.ListFinishes(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list finishes")
	}
	return &OptionsResult{
		Technologies: enums.Technologies(),
		Materials:    materials,
		Finishes:     finishes,
	}, nil
}

// Snapshot loads the active catalog into an immutable lookup the pricing
// engine can run against without further I/O.
func (s *service) Snapshot(ctx context.Context, minimum pricing.MinimumPriceRule) (pricing.Catalog, error) {
	materials, err := s.repo.ListMaterials(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load materials")
	}
	finishes, err := s.repo.ListFinishes(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load finishes")
	}
	return newSnapshot(materials, finishes, minimum), nil
}

func (s *service) ListMaterials(ctx context.Context) ([]models.Material, error) {
	materials, err := s.repo.ListMaterials(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials")
	}
	return materials, nil
}

func (s *service) CreateMaterial(ctx context.Context, input MaterialInput) (*models.Material, error) {
	normalized, err := normalizeMaterialInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindMaterialByKey(ctx, string(normalized.Technology), normalized.MaterialKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check material key")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "material key already exists for technology")
	}

	material := &models.Material{
		Technology:   normalized.Technology,
		MaterialKey:  normalized.MaterialKey,
		DisplayName:  normalized.DisplayName,
		DensityGCC:   input.DensityGCC,
		PricePerGram: input.PricePerGram,
		IsActive:     normalized.IsActive,
	}
	if err := s.repo.CreateMaterial(ctx, material); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create material")
	}
	return material, nil
}

func (s *service) UpdateMaterial(ctx context.Context, id uuid.UUID, input MaterialInput) (*models.Material, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material id required")
	}
	normalized, err := normalizeMaterialInput(input)
	if err != nil {
		return nil, err
	}

	material, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material")
	}

	if material.MaterialKey != normalized.MaterialKey || material.Technology != normalized.Technology {
		existing, err := s.repo.FindMaterialByKey(ctx, string(normalized.Technology), normalized.MaterialKey)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check material key")
		}
		if existing != nil && existing.ID != id {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "material key already exists for technology")
		}
	}

	material.Technology = normalized.Technology
	material.MaterialKey = normalized.MaterialKey
	material.DisplayName = normalized.DisplayName
	material.DensityGCC = input.DensityGCC
	material.PricePerGram = input.PricePerGram
	material.IsActive = normalized.IsActive

	if err := s.repo.UpdateMaterial(ctx, material); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update material")
	}
	return material, nil
}

func (s *service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "material id required")
	}
	deleted, err := s.repo.DeleteMaterial(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete material")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	return nil
}

func (s *service) ListFinishes(ctx context.Context) ([]models.Finish, error) {
	finishes, err := s.repo.ListFinishes(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list finishes")
	}
	return finishes, nil
}

func (s *service) CreateFinish(ctx context.Context, input FinishInput) (*models.Finish, error) {
	key, active, err := normalizeFinishInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindFinishByKey(ctx, key)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check finish key")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "finish key already exists")
	}

	finish := &models.Finish{
		FinishKey:      key,
		DisplayName:    strings.TrimSpace(input.DisplayName),
		CostMultiplier: input.CostMultiplier,
		IsActive:       active,
	}
	if err := s.repo.CreateFinish(ctx, finish); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create finish")
	}
	return finish, nil
}

func (s *service) UpdateFinish(ctx context.Context, id uuid.UUID, input FinishInput) (*models.Finish, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "finish id required")
	}
	key, active, err := normalizeFinishInput(input)
	if err != nil {
		return nil, err
	}

	finish, err := s.repo.GetFinish(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "finish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load finish")
	}

	if finish.FinishKey != key {
		existing, err := s.repo.FindFinishByKey(ctx, key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check finish key")
		}
		if existing != nil && existing.ID != id {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "finish key already exists")
		}
	}

	finish.FinishKey = key
	finish.DisplayName = strings.TrimSpace(input.DisplayName)
	finish.CostMultiplier = input.CostMultiplier
	finish.IsActive = active

	if err := s.repo.UpdateFinish(ctx, finish); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update finish")
	}
	return finish, nil
}

func (s *service) DeleteFinish(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "finish id required")
	}
	deleted, err := s.repo.DeleteFinish(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete finish")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "finish not found")
	}
	return nil
}

type normalizedMaterial struct {
	Technology  enums.Technology
	MaterialKey string
	DisplayName string
	IsActive    bool
}

func normalizeMaterialInput(input MaterialInput) (normalizedMaterial, error) {
	tech := enums.Technology(strings.ToLower(strings.TrimSpace(input.Technology)))
	if !tech.IsValid() {
		return normalizedMaterial{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown technology")
	}
	key := strings.ToLower(strings.TrimSpace(input.MaterialKey))
	if key == "" {
		return normalizedMaterial{}, pkgerrors.New(pkgerrors.CodeValidation, "material key required")
	}
	if !input.DensityGCC.IsPositive() {
		return normalizedMaterial{}, pkgerrors.New(pkgerrors.CodeValidation, "density must be positive")
	}
	if !input.PricePerGram.IsPositive() {
		return normalizedMaterial{}, pkgerrors.New(pkgerrors.CodeValidation, "price per gram must be positive")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return normalizedMaterial{
		Technology:  tech,
		MaterialKey: key,
		DisplayName: strings.TrimSpace(input.DisplayName),
		IsActive:    active,
	}, nil
}

func normalizeFinishInput(input FinishInput) (string, bool, error) {
	key := strings.ToLower(strings.TrimSpace(input.FinishKey))
	if key == "" {
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "finish key required")
	}
	if !input.CostMultiplier.IsPositive() {
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "cost multiplier must be positive")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return key, active, nil
}
