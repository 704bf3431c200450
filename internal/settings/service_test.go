package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
)

type memorySettingsRepo struct {
	docs map[string]*models.PricingSetting
}

func newMemorySettingsRepo() *memorySettingsRepo {
	return &memorySettingsRepo{docs: map[string]*models.PricingSetting{}}
}

func (r *memorySettingsRepo) WithTx(_ *gorm.DB) Repository {
	return r
}

func (r *memorySettingsRepo) Get(_ context.Context, key string) (*models.PricingSetting, error) {
	if doc, ok := r.docs[key]; ok {
		return doc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySettingsRepo) Upsert(_ context.Context, setting *models.PricingSetting) error {
	r.docs[setting.DocKey] = setting
	return nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(newMemorySettingsRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAbsentKeysFallBackToDefaults(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	slabs, err := svc.Slabs(ctx)
	if err != nil || len(slabs) != 0 {
		t.Fatalf("expected empty slabs, got %v %v", slabs, err)
	}

	rates, err := svc.TaxRates(ctx)
	if err != nil {
		t.Fatalf("tax rates: %v", err)
	}
	if rates.CGSTPercent.String() != "9" || rates.SGSTPercent.String() != "9" || !rates.IGSTPercent.IsZero() {
		t.Fatalf("unexpected default rates %+v", rates)
	}

	rule, err := svc.MinimumPrice(ctx)
	if err != nil || rule.Enabled {
		t.Fatalf("minimum price should default disabled, got %+v %v", rule, err)
	}

	charges, err := svc.Charges(ctx)
	if err != nil || charges.Enabled {
		t.Fatalf("charges should default disabled, got %+v %v", charges, err)
	}
}

func TestSlabsRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	in := []pricing.Slab{
		{MinVolumeCC: decimal.NewFromInt(2000), Percent: decimal.NewFromInt(5), Label: "Bronze"},
		{MinVolumeCC: decimal.NewFromInt(4000), Percent: decimal.NewFromInt(10), Label: "Silver"},
	}
	if err := svc.PutSlabs(ctx, in); err != nil {
		t.Fatalf("put slabs: %v", err)
	}

	out, err := svc.Slabs(ctx)
	if err != nil {
		t.Fatalf("get slabs: %v", err)
	}
	if len(out) != 2 || out[0].Label != "Bronze" || out[1].Percent.String() != "10" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestPutSlabsValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		slabs []pricing.Slab
	}{
		{"zero volume", []pricing.Slab{{MinVolumeCC: decimal.Zero, Percent: decimal.NewFromInt(5)}}},
		{"negative percent", []pricing.Slab{{MinVolumeCC: decimal.NewFromInt(100), Percent: decimal.NewFromInt(-1)}}},
		{"percent above cap", []pricing.Slab{{MinVolumeCC: decimal.NewFromInt(100), Percent: decimal.NewFromInt(51)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.PutSlabs(ctx, tc.slabs)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestQuoteConfigAssemblesDocuments(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.PutSlabs(ctx, []pricing.Slab{{MinVolumeCC: decimal.NewFromInt(4000), Percent: decimal.NewFromInt(10), Label: "Silver"}}); err != nil {
		t.Fatalf("put slabs: %v", err)
	}
	if err := svc.PutRegularDiscount(ctx, pricing.RegularDiscount{Enabled: true, Percent: decimal.NewFromInt(5)}); err != nil {
		t.Fatalf("put regular: %v", err)
	}
	if err := svc.PutTaxRates(ctx, pricing.TaxRates{IGSTPercent: decimal.NewFromInt(18)}); err != nil {
		t.Fatalf("put rates: %v", err)
	}
	if err := svc.PutCharges(ctx, pricing.Charges{Enabled: true, Packaging: 50, Courier: 100}); err != nil {
		t.Fatalf("put charges: %v", err)
	}

	cfg, err := svc.QuoteConfig(ctx)
	if err != nil {
		t.Fatalf("quote config: %v", err)
	}
	if len(cfg.Discounts.Slabs) != 1 || !cfg.Discounts.Regular.Enabled {
		t.Fatalf("discount config mismatch: %+v", cfg.Discounts)
	}
	if cfg.Taxes.IGSTPercent.String() != "18" {
		t.Fatalf("tax config mismatch: %+v", cfg.Taxes)
	}
	if !cfg.Charges.Enabled || cfg.Charges.Courier != 100 {
		t.Fatalf("charges config mismatch: %+v", cfg.Charges)
	}
}

func TestPutBankDetailsValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	err := svc.PutBankDetails(ctx, BankDetails{AccountName: "3D Prints"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details := BankDetails{
		AccountName:   "3D Prints Pvt Ltd",
		AccountNumber: "001122334455",
		BankName:      "HDFC Bank",
		Branch:        "Ahmedabad",
		IFSC:          "HDFC0000123",
	}
	if err := svc.PutBankDetails(ctx, details); err != nil {
		t.Fatalf("put bank details: %v", err)
	}
	out, err := svc.BankDetails(ctx)
	if err != nil || out.IFSC != "HDFC0000123" {
		t.Fatalf("round trip mismatch: %+v %v", out, err)
	}
}
