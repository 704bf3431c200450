package orderlines

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type memoryLineRepo struct {
	lines map[uuid.UUID]*models.OrderLine
}

func newMemoryLineRepo() *memoryLineRepo {
	return &memoryLineRepo{lines: map[uuid.UUID]*models.OrderLine{}}
}

func (r *memoryLineRepo) WithTx(_ *gorm.DB) Repository { return r }

func (r *memoryLineRepo) Create(_ context.Context, line *models.OrderLine) error {
	line.ID = uuid.New()
	copied := *line
	r.lines[line.ID] = &copied
	return nil
}

func (r *memoryLineRepo) Get(_ context.Context, id uuid.UUID) (*models.OrderLine, error) {
	line, ok := r.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *line
	return &copied, nil
}

func (r *memoryLineRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]models.OrderLine, error) {
	var out []models.OrderLine
	for _, line := range r.lines {
		if line.SessionID == sessionID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (r *memoryLineRepo) Update(_ context.Context, line *models.OrderLine) error {
	copied := *line
	r.lines[line.ID] = &copied
	return nil
}

func (r *memoryLineRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.lines[id]; !ok {
		return false, nil
	}
	delete(r.lines, id)
	return true, nil
}

func (r *memoryLineRepo) DeleteBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	for id, line := range r.lines {
		if line.SessionID == sessionID {
			delete(r.lines, id)
			count++
		}
	}
	return count, nil
}

type stubCatalog struct {
	catalog.Service
}

type plaSnapshot struct {
	minimum pricing.MinimumPriceRule
}

func (s plaSnapshot) LookupMaterial(tech enums.Technology, key string) (pricing.Material, bool) {
	if tech == enums.TechnologyFDM && key == "pla" {
		return pricing.Material{
			Technology:   tech,
			MaterialKey:  key,
			DisplayName:  "PLA",
			DensityGCC:   decimal.NewFromFloat(1.24),
			PricePerGram: decimal.NewFromInt(8),
		}, true
	}
	return pricing.Material{}, false
}

func (s plaSnapshot) LookupFinish(key string) (pricing.Finish, bool) {
	if key == "standard" {
		return pricing.Finish{FinishKey: key, CostMultiplier: decimal.NewFromInt(1)}, true
	}
	return pricing.Finish{}, false
}

func (s plaSnapshot) MinimumPrice() pricing.MinimumPriceRule { return s.minimum }

func (s *stubCatalog) Snapshot(_ context.Context, minimum pricing.MinimumPriceRule) (pricing.Catalog, error) {
	return plaSnapshot{minimum: minimum}, nil
}

type stubSettings struct {
	settings.Service
	minimum pricing.MinimumPriceRule
}

func (s *stubSettings) MinimumPrice(_ context.Context) (pricing.MinimumPriceRule, error) {
	return s.minimum, nil
}

type recordingRefiner struct {
	enqueued []uuid.UUID
	batches  []map[uuid.UUID]volume.FileRef
}

func (e *recordingRefiner) Enqueue(lineID uuid.UUID, _ volume.FileRef) bool {
	e.enqueued = append(e.enqueued, lineID)
	return true
}

func (e *recordingRefiner) RefineNow(_ context.Context, lines map[uuid.UUID]volume.FileRef) error {
	e.batches = append(e.batches, lines)
	return nil
}

func newTestService(t *testing.T, repo Repository, refiner Refiner) Service {
	t.Helper()
	svc, err := NewService(repo, &stubCatalog{}, &stubSettings{}, refiner, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateLineEstimatesAndEnqueues(t *testing.T) {
	t.Parallel()

	repo := newMemoryLineRepo()
	enqueuer := &recordingRefiner{}
	svc := newTestService(t, repo, enqueuer)

	line, err := svc.Create(context.Background(), CreateInput{
		SessionID:     uuid.New(),
		FileName:      "bracket.stl",
		FileSizeBytes: 300000,
		Technology:    "FDM",
		MaterialKey:   "PLA",
		FinishKey:     "standard",
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 300000 bytes → 10 cm³ estimate → weight 12.4 g → 12.4*8*2 = 198.4 → 198
	if line.VolumeCC.String() != "10" || line.VolumeMethod != enums.VolumeMethodEstimated {
		t.Errorf("volume = %s/%s, want 10/estimated", line.VolumeCC, line.VolumeMethod)
	}
	if line.WeightGrams.String() != "12.4" {
		t.Errorf("weight = %s, want 12.4", line.WeightGrams)
	}
	if line.LineCost != 198 {
		t.Errorf("line cost = %d, want 198", line.LineCost)
	}
	if len(enqueuer.enqueued) != 1 || enqueuer.enqueued[0] != line.ID {
		t.Errorf("line should be enqueued for refinement, got %v", enqueuer.enqueued)
	}
}

func TestCreateLineRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryLineRepo(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		SessionID:  uuid.New(),
		FileName:   "bracket.stl",
		Technology: "fdm",
		Quantity:   0,
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateLineRecomputes(t *testing.T) {
	t.Parallel()

	repo := newMemoryLineRepo()
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	line, err := svc.Create(ctx, CreateInput{
		SessionID:     uuid.New(),
		FileName:      "bracket.stl",
		FileSizeBytes: 300000,
		Technology:    "fdm",
		MaterialKey:   "pla",
		FinishKey:     "standard",
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// 10 cm³ * 1.24 = 12.4 g; 12.4*8*1 = 99.2 → 99
	if line.LineCost != 99 {
		t.Fatalf("initial cost = %d, want 99", line.LineCost)
	}

	qty := 4
	updated, err := svc.Update(ctx, line.ID, UpdateInput{Quantity: &qty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	// 12.4*8*4 = 396.8 → 397
	if updated.LineCost != 397 {
		t.Errorf("cost after quadrupling quantity = %d, want 397", updated.LineCost)
	}

	// Switching to an unknown material drops to fallback pricing rather
	// than failing.
	missing := "exotic"
	updated, err = svc.Update(ctx, line.ID, UpdateInput{MaterialKey: &missing})
	if err != nil {
		t.Fatalf("update with unknown material: %v", err)
	}
	// 10 cm³ * 1.175 = 11.75 g; 11.75*12*4 = 564
	if updated.WeightGrams.String() != "11.75" || updated.LineCost != 564 {
		t.Errorf("fallback pricing = %s/%d, want 11.75/564", updated.WeightGrams, updated.LineCost)
	}
}

func TestApplyRefinementRecomputesLine(t *testing.T) {
	t.Parallel()

	repo := newMemoryLineRepo()
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	line, err := svc.Create(ctx, CreateInput{
		SessionID:     uuid.New(),
		FileName:      "bracket.stl",
		FileSizeBytes: 300000,
		Technology:    "fdm",
		MaterialKey:   "pla",
		FinishKey:     "standard",
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.ApplyRefinement(ctx, line.ID, volume.Result{
		VolumeCC: decimal.NewFromInt(100),
		Method:   enums.VolumeMethodCalculated,
	})
	if err != nil {
		t.Fatalf("apply refinement: %v", err)
	}

	refined, err := repo.Get(ctx, line.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if refined.VolumeMethod != enums.VolumeMethodCalculated {
		t.Errorf("method = %s, want calculated", refined.VolumeMethod)
	}
	if refined.WeightGrams.String() != "124" || refined.LineCost != 1984 {
		t.Errorf("refined pricing = %s/%d, want 124/1984", refined.WeightGrams, refined.LineCost)
	}
}

func TestApplyRefinementForRemovedLineIsNoOp(t *testing.T) {
	t.Parallel()

	repo := newMemoryLineRepo()
	svc := newTestService(t, repo, nil)

	err := svc.ApplyRefinement(context.Background(), uuid.New(), volume.Result{
		VolumeCC: decimal.NewFromInt(50),
		Method:   enums.VolumeMethodCalculated,
	})
	if err != nil {
		t.Fatalf("refinement for missing line must be a no-op, got %v", err)
	}
	if len(repo.lines) != 0 {
		t.Fatal("no line should have been created")
	}
}

func TestDeleteLine(t *testing.T) {
	t.Parallel()

	repo := newMemoryLineRepo()
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	line, err := svc.Create(ctx, CreateInput{
		SessionID:  uuid.New(),
		FileName:   "bracket.stl",
		Technology: "fdm",
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, line.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.Delete(ctx, line.ID)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRefineSessionSubmitsEstimatedLinesOnly(t *testing.T) {
	t.Parallel()

	repo := newMemoryLineRepo()
	refiner := &recordingRefiner{}
	svc := newTestService(t, repo, refiner)
	ctx := context.Background()

	sessionID := uuid.New()
	estimated, err := svc.Create(ctx, CreateInput{
		SessionID:     sessionID,
		FileName:      "bracket.stl",
		FileSizeBytes: 300000,
		Technology:    "fdm",
		MaterialKey:   "pla",
		FinishKey:     "standard",
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("create estimated line: %v", err)
	}

	measured, err := svc.Create(ctx, CreateInput{
		SessionID:     sessionID,
		FileName:      "housing.stl",
		FileSizeBytes: 90000,
		Technology:    "fdm",
		MaterialKey:   "pla",
		FinishKey:     "standard",
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("create second line: %v", err)
	}
	err = svc.ApplyRefinement(ctx, measured.ID, volume.Result{
		VolumeCC: decimal.NewFromInt(3),
		Method:   enums.VolumeMethodCalculated,
	})
	if err != nil {
		t.Fatalf("apply refinement: %v", err)
	}

	refined, err := svc.RefineSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("refine session: %v", err)
	}
	if refined != 1 {
		t.Fatalf("refined = %d, want 1", refined)
	}
	if len(refiner.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(refiner.batches))
	}
	batch := refiner.batches[0]
	if _, ok := batch[estimated.ID]; !ok {
		t.Error("estimated line missing from batch")
	}
	if _, ok := batch[measured.ID]; ok {
		t.Error("already-calculated line must not be re-measured")
	}
}

func TestRefineSessionWithoutRefiner(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryLineRepo(), nil)

	_, err := svc.RefineSession(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
