package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhruvpatel3d/printquote-backend/internal/quotes"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
)

type testQuotesService struct {
	summaryFn  func(ctx context.Context, sessionID uuid.UUID) (*quotes.SummaryResult, error)
	peekFn     func(ctx context.Context) (string, error)
	generateFn func(ctx context.Context, input quotes.GenerateInput) (*models.Quotation, error)
	getFn      func(ctx context.Context, number string) (*models.Quotation, error)
	listFn     func(ctx context.Context, params quotes.ListParams) (*quotes.ListResult, error)
	deleteFn   func(ctx context.Context, number string) error
	renderFn   func(ctx context.Context, number string) ([]byte, error)
}

func (s *testQuotesService) Summary(ctx context.Context, sessionID uuid.UUID) (*quotes.SummaryResult, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx, sessionID)
	}
	return &quotes.SummaryResult{SessionID: sessionID}, nil
}

func (s *testQuotesService) PeekNumber(ctx context.Context) (string, error) {
	if s.peekFn != nil {
		return s.peekFn(ctx)
	}
	return "QT10002", nil
}

func (s *testQuotesService) Generate(ctx context.Context, input quotes.GenerateInput) (*models.Quotation, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, input)
	}
	return &models.Quotation{Number: "QT10002"}, nil
}

func (s *testQuotesService) GetByNumber(ctx context.Context, number string) (*models.Quotation, error) {
	if s.getFn != nil {
		return s.getFn(ctx, number)
	}
	return &models.Quotation{Number: number}, nil
}

func (s *testQuotesService) List(ctx context.Context, params quotes.ListParams) (*quotes.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &quotes.ListResult{}, nil
}

func (s *testQuotesService) DeleteByNumber(ctx context.Context, number string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, number)
	}
	return nil
}

func (s *testQuotesService) RenderPDF(ctx context.Context, number string) ([]byte, error) {
	if s.renderFn != nil {
		return s.renderFn(ctx, number)
	}
	return []byte("%PDF-1.3"), nil
}

func TestQuoteSummaryRequiresSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote/summary", nil)
	resp := httptest.NewRecorder()

	QuoteSummary(&testQuotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestQuoteSummarySuccess(t *testing.T) {
	sessionID := uuid.New()
	svc := &testQuotesService{
		summaryFn: func(ctx context.Context, sid uuid.UUID) (*quotes.SummaryResult, error) {
			if sid != sessionID {
				t.Fatalf("unexpected session %s", sid)
			}
			return &quotes.SummaryResult{SessionID: sid, NextNumber: "QT10002"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote/summary?sessionId="+sessionID.String(), nil)
	resp := httptest.NewRecorder()

	QuoteSummary(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data quotes.SummaryResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.NextNumber != "QT10002" {
		t.Fatalf("unexpected next number %q", envelope.Data.NextNumber)
	}
}

func TestQuoteGenerateSuccess(t *testing.T) {
	sessionID := uuid.New()
	svc := &testQuotesService{
		generateFn: func(ctx context.Context, input quotes.GenerateInput) (*models.Quotation, error) {
			if input.SessionID != sessionID {
				t.Fatalf("unexpected session %s", input.SessionID)
			}
			if input.Client.Name != "Asha Patel" {
				t.Fatalf("unexpected client %+v", input.Client)
			}
			return &models.Quotation{Number: "QT10002"}, nil
		},
	}

	payload := `{"sessionId":"` + sessionID.String() + `","client":{"name":"Asha Patel","email":"asha@example.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/generate", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	QuoteGenerate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestQuotePDFStreamsDocument(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/QT10002/pdf", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("number", "QT10002")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()

	QuotePDF(&testQuotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatalf("body does not look like a PDF")
	}
}

func TestQuotePDFUnknownNumber(t *testing.T) {
	svc := &testQuotesService{
		renderFn: func(ctx context.Context, number string) ([]byte, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/QT99999/pdf", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("number", "QT99999")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()

	QuotePDF(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
