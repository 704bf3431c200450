package orderlines

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/internal/catalog"
	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	"github.com/dhruvpatel3d/printquote-backend/internal/volume"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
)

// Refiner schedules background volume refinement and can re-measure a
// batch of lines synchronously.
type Refiner interface {
	Enqueue(lineID uuid.UUID, ref volume.FileRef) bool
	RefineNow(ctx context.Context, lines map[uuid.UUID]volume.FileRef) error
}

// Service manages draft order lines. Derived pricing fields are recomputed
// on every option change and refinement; stale values never persist.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.OrderLine, error)
	Update(ctx context.Context, lineID uuid.UUID, input UpdateInput) (*models.OrderLine, error)
	Delete(ctx context.Context, lineID uuid.UUID) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderLine, error)

	// RefineSession synchronously re-measures every line in the session
	// that still carries a size-based estimate and reports how many were
	// submitted.
	RefineSession(ctx context.Context, sessionID uuid.UUID) (int, error)

	// ApplyRefinement implements volume.Applier. Results for removed lines
	// are discarded silently.
	ApplyRefinement(ctx context.Context, lineID uuid.UUID, result volume.Result) error
}

// CreateInput registers a freshly uploaded file as a draft line.
type CreateInput struct {
	SessionID     uuid.UUID `json:"sessionId" validate:"required"`
	FileName      string    `json:"fileName" validate:"required"`
	FileSizeBytes int64     `json:"fileSizeBytes" validate:"gte=0"`
	Technology    string    `json:"technology" validate:"required"`
	MaterialKey   string    `json:"materialKey"`
	FinishKey     string    `json:"finishKey"`
	Quantity      int       `json:"quantity" validate:"required,gte=1"`
}

// UpdateInput changes line options; nil fields are left untouched.
type UpdateInput struct {
	Technology  *string `json:"technology"`
	MaterialKey *string `json:"materialKey"`
	FinishKey   *string `json:"finishKey"`
	Quantity    *int    `json:"quantity"`
}

type service struct {
	repo     Repository
	catalog  catalog.Service
	settings settings.Service
	refiner  Refiner
	logg     *logger.Logger
}

// NewService wires order-line dependencies. The refiner may be nil, in
// which case lines keep their size-based estimates.
func NewService(repo Repository, catalogSvc catalog.Service, settingsSvc settings.Service, refiner Refiner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order-line repository required")
	}
	if catalogSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service required")
	}
	if settingsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     repo,
		catalog:  catalogSvc,
		settings: settingsSvc,
		refiner:  refiner,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.OrderLine, error) {
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name required")
	}
	if input.FileSizeBytes < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file size cannot be negative")
	}
	tech := enums.Technology(strings.ToLower(strings.TrimSpace(input.Technology)))
	if !tech.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown technology")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	estimate := volume.EstimateFromSize(input.FileSizeBytes)
	line := &models.OrderLine{
		SessionID:     input.SessionID,
		FileName:      strings.TrimSpace(input.FileName),
		FileSizeBytes: input.FileSizeBytes,
		Technology:    tech,
		MaterialKey:   strings.ToLower(strings.TrimSpace(input.MaterialKey)),
		FinishKey:     strings.ToLower(strings.TrimSpace(input.FinishKey)),
		Quantity:      input.Quantity,
		VolumeCC:      estimate.VolumeCC,
		VolumeMethod:  estimate.Method,
	}
	if err := s.recompute(ctx, line); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order line")
	}

	if s.refiner != nil {
		ref := volume.FileRef{Name: line.FileName, SizeBytes: line.FileSizeBytes}
		if !s.refiner.Enqueue(line.ID, ref) {
			s.logg.Warn(s.logg.WithField(ctx, "line_id", line.ID.String()), "refinement queue full, keeping size estimate")
		}
	}
	return line, nil
}

func (s *service) Update(ctx context.Context, lineID uuid.UUID, input UpdateInput) (*models.OrderLine, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	line, err := s.repo.Get(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line")
	}

	if input.Technology != nil {
		tech := enums.Technology(strings.ToLower(strings.TrimSpace(*input.Technology)))
		if !tech.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown technology")
		}
		line.Technology = tech
	}
	if input.MaterialKey != nil {
		line.MaterialKey = strings.ToLower(strings.TrimSpace(*input.MaterialKey))
	}
	if input.FinishKey != nil {
		line.FinishKey = strings.ToLower(strings.TrimSpace(*input.FinishKey))
	}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		line.Quantity = *input.Quantity
	}

	if err := s.recompute(ctx, line); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order line")
	}
	return line, nil
}

func (s *service) Delete(ctx context.Context, lineID uuid.UUID) error {
	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}
	deleted, err := s.repo.Delete(ctx, lineID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order line")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
	}
	return nil
}

func (s *service) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderLine, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	lines, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order lines")
	}
	return lines, nil
}

func (s *service) RefineSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if sessionID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if s.refiner == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "volume refinement unavailable")
	}

	lines, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order lines")
	}

	pending := make(map[uuid.UUID]volume.FileRef, len(lines))
	for _, line := range lines {
		if line.VolumeMethod != enums.VolumeMethodEstimated {
			continue
		}
		pending[line.ID] = volume.FileRef{Name: line.FileName, SizeBytes: line.FileSizeBytes}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := s.refiner.RefineNow(ctx, pending); err != nil {
		return len(pending), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refine session lines")
	}
	return len(pending), nil
}

func (s *service) ApplyRefinement(ctx context.Context, lineID uuid.UUID, result volume.Result) error {
	line, err := s.repo.Get(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The line was removed while the measurement was in flight.
			s.logg.Info(s.logg.WithField(ctx, "line_id", lineID.String()), "discarding refinement for removed line")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line")
	}

	line.VolumeCC = result.VolumeCC
	line.VolumeMethod = result.Method
	if err := s.recompute(ctx, line); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, line); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update refined line")
	}
	return nil
}

// recompute rederives weight and cost from the line's current options
// against a fresh catalog snapshot.
func (s *service) recompute(ctx context.Context, line *models.OrderLine) error {
	minimum, err := s.settings.MinimumPrice(ctx)
	if err != nil {
		return err
	}
	snap, err := s.catalog.Snapshot(ctx, minimum)
	if err != nil {
		return err
	}

	estimate, err := pricing.EstimateLine(snap, pricing.LineInput{
		VolumeCC:    line.VolumeCC,
		Technology:  line.Technology,
		MaterialKey: line.MaterialKey,
		FinishKey:   line.FinishKey,
		Quantity:    line.Quantity,
	})
	if err != nil {
		return err
	}

	line.WeightGrams = estimate.WeightGrams
	line.UnitCost = estimate.UnitCost
	line.LineCost = estimate.LineCost
	line.MinimumApplied = estimate.MinimumApplied
	return nil
}
