package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
)

// Document keys. Absent keys resolve to defaults; no migration logic beyond
// that fallback.
const (
	KeySlabs           = "volume_slabs"
	KeyRegularDiscount = "regular_discount"
	KeyTaxRates        = "tax_rates"
	KeyMinimumPrice    = "minimum_price"
	KeyCharges         = "charges"
	KeyBankDetails     = "bank_details"
)

var maxDiscountPercent = decimal.NewFromInt(50)

// BankDetails is printed on quotation PDFs and embedded in snapshots.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	Branch        string `json:"branch"`
	IFSC          string `json:"ifsc"`
	UPIID         string `json:"upiId,omitempty"`
}

// Service reads and writes the pricing configuration documents.
type Service interface {
	Slabs(ctx context.Context) ([]pricing.Slab, error)
	PutSlabs(ctx context.Context, slabs []pricing.Slab) error

	RegularDiscount(ctx context.Context) (pricing.RegularDiscount, error)
	PutRegularDiscount(ctx context.Context, discount pricing.RegularDiscount) error

	TaxRates(ctx context.Context) (pricing.TaxRates, error)
	PutTaxRates(ctx context.Context, rates pricing.TaxRates) error

	MinimumPrice(ctx context.Context) (pricing.MinimumPriceRule, error)
	PutMinimumPrice(ctx context.Context, rule pricing.MinimumPriceRule) error

	Charges(ctx context.Context) (pricing.Charges, error)
	PutCharges(ctx context.Context, charges pricing.Charges) error

	BankDetails(ctx context.Context) (BankDetails, error)
	PutBankDetails(ctx context.Context, details BankDetails) error

	// QuoteConfig assembles the discount, tax and charge documents into one
	// configuration snapshot for the aggregator.
	QuoteConfig(ctx context.Context) (pricing.QuoteConfig, error)
}

type service struct {
	repo Repository
}

// NewService wires settings dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings repository required")
	}
	return &service{repo: repo}, nil
}

// load unmarshals the document at key into out; absent keys leave out at
// its default value.
func (s *service) load(ctx context.Context, key string, out any) error {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	if err := json.Unmarshal(setting.Doc, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode setting document")
	}
	return nil
}

func (s *service) store(ctx context.Context, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode setting document")
	}
	if err := s.repo.Upsert(ctx, &models.PricingSetting{DocKey: key, Doc: raw}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store setting")
	}
	return nil
}

func (s *service) Slabs(ctx context.Context) ([]pricing.Slab, error) {
	var slabs []pricing.Slab
	if err := s.load(ctx, KeySlabs, &slabs); err != nil {
		return nil, err
	}
	return slabs, nil
}

func (s *service) PutSlabs(ctx context.Context, slabs []pricing.Slab) error {
	for _, slab := range slabs {
		if !slab.MinVolumeCC.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "slab minimum volume must be positive")
		}
		if slab.Percent.IsNegative() || slab.Percent.GreaterThan(maxDiscountPercent) {
			return pkgerrors.New(pkgerrors.CodeValidation, "slab percent must be between 0 and 50")
		}
	}
	return s.store(ctx, KeySlabs, slabs)
}

func (s *service) RegularDiscount(ctx context.Context) (pricing.RegularDiscount, error) {
	var discount pricing.RegularDiscount
	if err := s.load(ctx, KeyRegularDiscount, &discount); err != nil {
		return pricing.RegularDiscount{}, err
	}
	return discount, nil
}

func (s *service) PutRegularDiscount(ctx context.Context, discount pricing.RegularDiscount) error {
	if discount.Percent.IsNegative() || discount.Percent.GreaterThan(maxDiscountPercent) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 50")
	}
	return s.store(ctx, KeyRegularDiscount, discount)
}

func (s *service) TaxRates(ctx context.Context) (pricing.TaxRates, error) {
	rates := defaultTaxRates()
	if err := s.load(ctx, KeyTaxRates, &rates); err != nil {
		return pricing.TaxRates{}, err
	}
	return rates, nil
}

func (s *service) PutTaxRates(ctx context.Context, rates pricing.TaxRates) error {
	if rates.CGSTPercent.IsNegative() || rates.SGSTPercent.IsNegative() || rates.IGSTPercent.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax percents cannot be negative")
	}
	return s.store(ctx, KeyTaxRates, rates)
}

func (s *service) MinimumPrice(ctx context.Context) (pricing.MinimumPriceRule, error) {
	var rule pricing.MinimumPriceRule
	if err := s.load(ctx, KeyMinimumPrice, &rule); err != nil {
		return pricing.MinimumPriceRule{}, err
	}
	return rule, nil
}

func (s *service) PutMinimumPrice(ctx context.Context, rule pricing.MinimumPriceRule) error {
	if rule.Amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum amount cannot be negative")
	}
	return s.store(ctx, KeyMinimumPrice, rule)
}

func (s *service) Charges(ctx context.Context) (pricing.Charges, error) {
	var charges pricing.Charges
	if err := s.load(ctx, KeyCharges, &charges); err != nil {
		return pricing.Charges{}, err
	}
	return charges, nil
}

func (s *service) PutCharges(ctx context.Context, charges pricing.Charges) error {
	if charges.Packaging < 0 || charges.Courier < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "charges cannot be negative")
	}
	return s.store(ctx, KeyCharges, charges)
}

func (s *service) BankDetails(ctx context.Context) (BankDetails, error) {
	var details BankDetails
	if err := s.load(ctx, KeyBankDetails, &details); err != nil {
		return BankDetails{}, err
	}
	return details, nil
}

func (s *service) PutBankDetails(ctx context.Context, details BankDetails) error {
	if details.AccountNumber == "" || details.BankName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account number and bank name required")
	}
	return s.store(ctx, KeyBankDetails, details)
}

func (s *service) QuoteConfig(ctx context.Context) (pricing.QuoteConfig, error) {
	slabs, err := s.Slabs(ctx)
	if err != nil {
		return pricing.QuoteConfig{}, err
	}
	regular, err := s.RegularDiscount(ctx)
	if err != nil {
		return pricing.QuoteConfig{}, err
	}
	rates, err := s.TaxRates(ctx)
	if err != nil {
		return pricing.QuoteConfig{}, err
	}
	charges, err := s.Charges(ctx)
	if err != nil {
		return pricing.QuoteConfig{}, err
	}
	return pricing.QuoteConfig{
		Discounts: pricing.DiscountConfig{Slabs: slabs, Regular: regular},
		Taxes:     rates,
		Charges:   charges,
	}, nil
}

func defaultTaxRates() pricing.TaxRates {
	return pricing.TaxRates{
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
		IGSTPercent: decimal.Zero,
	}
}
