package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/internal/orderlines"
	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
	"github.com/dhruvpatel3d/printquote-backend/pkg/metrics"
	"github.com/dhruvpatel3d/printquote-backend/pkg/pagination"
)

// Service exposes quotation pricing, generation and retrieval.
type Service interface {
	Summary(ctx context.Context, sessionID uuid.UUID) (*SummaryResult, error)
	PeekNumber(ctx context.Context) (string, error)
	Generate(ctx context.Context, input GenerateInput) (*models.Quotation, error)
	GetByNumber(ctx context.Context, number string) (*models.Quotation, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	DeleteByNumber(ctx context.Context, number string) error
	RenderPDF(ctx context.Context, number string) ([]byte, error)
}

// SummaryResult is the live quote for a draft session. Its breakdown comes
// from the same aggregator call that generation snapshots.
type SummaryResult struct {
	SessionID  uuid.UUID         `json:"sessionId"`
	Lines      []LineSnapshot    `json:"lines"`
	Breakdown  pricing.Breakdown `json:"breakdown"`
	NextNumber string            `json:"nextNumber"`
}

// GenerateInput freezes a session into a numbered quotation.
type GenerateInput struct {
	SessionID uuid.UUID  `json:"sessionId" validate:"required"`
	Client    ClientInfo `json:"client" validate:"required"`
	SendEmail bool       `json:"sendEmail"`
}

// ListParams configures pagination for the admin quotation list.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps returned quotations and the cursor for the next page.
type ListResult struct {
	Items  []models.Quotation `json:"items"`
	Cursor string             `json:"cursor"`
}

// Options carries the service knobs taken from configuration.
type Options struct {
	ValidityDays int
}

type service struct {
	repo     Repository
	counter  Counter
	lines    orderlines.Service
	settings settings.Service
	renderer *PDFRenderer
	mailer   Mailer
	logg     *logger.Logger
	quote    *metrics.QuoteMetrics
	opts     Options
}

// NewService wires quotation dependencies.
func NewService(
	repo Repository,
	counter Counter,
	lineSvc orderlines.Service,
	settingsSvc settings.Service,
	renderer *PDFRenderer,
	mailer Mailer,
	logg *logger.Logger,
	quote *metrics.QuoteMetrics,
	opts Options,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "quotations repository required")
	}
	if counter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "quotation counter required")
	}
	if lineSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order-line service required")
	}
	if settingsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings service required")
	}
	if renderer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pdf renderer required")
	}
	if mailer == nil {
		mailer = NewLogMailer(logg)
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if opts.ValidityDays <= 0 {
		opts.ValidityDays = 15
	}
	return &service{
		repo:     repo,
		counter:  counter,
		lines:    lineSvc,
		settings: settingsSvc,
		renderer: renderer,
		mailer:   mailer,
		logg:     logg,
		quote:    quote,
		opts:     opts,
	}, nil
}

func (s *service) Summary(ctx context.Context, sessionID uuid.UUID) (*SummaryResult, error) {
	started := time.Now()
	lines, err := s.lines.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.settings.QuoteConfig(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.Aggregate(estimatesFromLines(lines), cfg)
	nextNumber, err := s.counter.PeekNext(ctx)
	if err != nil {
		return nil, err
	}
	s.quote.ObservePricingDuration("summary", time.Since(started))

	return &SummaryResult{
		SessionID:  sessionID,
		Lines:      snapshotLines(lines),
		Breakdown:  breakdown,
		NextNumber: nextNumber,
	}, nil
}

func (s *service) PeekNumber(ctx context.Context) (string, error) {
	return s.counter.PeekNext(ctx)
}

func (s *service) Generate(ctx context.Context, input GenerateInput) (*models.Quotation, error) {
	started := time.Now()
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if strings.TrimSpace(input.Client.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name required")
	}

	lines, err := s.lines.ListBySession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot generate a quotation without lines")
	}

	cfg, err := s.settings.QuoteConfig(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := pricing.Aggregate(estimatesFromLines(lines), cfg)

	bank, err := s.settings.BankDetails(ctx)
	if err != nil {
		return nil, err
	}

	number, err := s.counter.AllocateNext(ctx)
	if err != nil {
		s.quote.IncGenerated("counter_failed")
		return nil, err
	}
	ctx = s.logg.WithQuotationNumber(ctx, number)

	snapshot := Snapshot{
		Client:    input.Client,
		Lines:     snapshotLines(lines),
		Charges:   chargesSnapshot(breakdown),
		Breakdown: breakdown,
	}
	if bank != (settings.BankDetails{}) {
		snapshot.BankDetails = &bank
	}

	quotation, err := buildQuotationModel(number, snapshot, s.opts.ValidityDays)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, quotation); err != nil {
		s.quote.IncGenerated("store_failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store quotation")
	}

	s.quote.IncGenerated("ok")
	s.quote.ObservePricingDuration("generate", time.Since(started))
	s.logg.Info(ctx, "quotation generated")

	if input.SendEmail && input.Client.Email != "" {
		if err := s.mailer.SendQuotation(ctx, input.Client.Email, quotation); err != nil {
			// Delivery is best-effort; the quotation is already issued.
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "quotation mail delivery failed")
		}
	}
	return quotation, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Quotation, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quotation number required")
	}
	quotation, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation")
	}
	return quotation, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.List(ctx, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotations")
	}

	result := &ListResult{Items: rows}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) DeleteByNumber(ctx context.Context, number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "quotation number required")
	}
	deleted, err := s.repo.DeleteByNumber(ctx, number)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete quotation")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
	}
	return nil
}

func (s *service) RenderPDF(ctx context.Context, number string) ([]byte, error) {
	quotation, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	snapshot, err := snapshotFromModel(quotation)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	pdf, err := s.renderer.Render(quotation, snapshot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render quotation pdf")
	}
	s.quote.ObservePricingDuration("pdf", time.Since(started))
	return pdf, nil
}

func chargesSnapshot(breakdown pricing.Breakdown) ChargesSnapshot {
	return ChargesSnapshot{
		Applied:   breakdown.ChargesApplied,
		Packaging: breakdown.Packaging,
		Courier:   breakdown.Courier,
		Note:      breakdown.ChargesNote,
	}
}

func buildQuotationModel(number string, snapshot Snapshot, validityDays int) (*models.Quotation, error) {
	client, err := json.Marshal(snapshot.Client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode client")
	}
	lines, err := json.Marshal(snapshot.Lines)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode lines")
	}
	charges, err := json.Marshal(snapshot.Charges)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode charges")
	}
	breakdown, err := json.Marshal(snapshot.Breakdown)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode breakdown")
	}

	quotation := &models.Quotation{
		Number:    number,
		Status:    enums.QuotationStatusGenerated,
		Client:    client,
		Lines:     lines,
		Charges:   charges,
		Breakdown: breakdown,
	}
	if snapshot.BankDetails != nil {
		bank, err := json.Marshal(snapshot.BankDetails)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode bank details")
		}
		quotation.BankDetails = bank
	}
	validUntil := time.Now().UTC().AddDate(0, 0, validityDays)
	quotation.ValidUntil = &validUntil
	return quotation, nil
}

func snapshotFromModel(quotation *models.Quotation) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(quotation.Client, &snapshot.Client); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode client")
	}
	if err := json.Unmarshal(quotation.Lines, &snapshot.Lines); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode lines")
	}
	if err := json.Unmarshal(quotation.Charges, &snapshot.Charges); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode charges")
	}
	if err := json.Unmarshal(quotation.Breakdown, &snapshot.Breakdown); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode breakdown")
	}
	if len(quotation.BankDetails) > 0 {
		snapshot.BankDetails = &settings.BankDetails{}
		if err := json.Unmarshal(quotation.BankDetails, snapshot.BankDetails); err != nil {
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode bank details")
		}
	}
	return snapshot, nil
}
