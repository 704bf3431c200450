package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/internal/orderlines"
	"github.com/dhruvpatel3d/printquote-backend/internal/volume"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
)

type testLinesService struct {
	createFn func(ctx context.Context, input orderlines.CreateInput) (*models.OrderLine, error)
	updateFn func(ctx context.Context, lineID uuid.UUID, input orderlines.UpdateInput) (*models.OrderLine, error)
	deleteFn func(ctx context.Context, lineID uuid.UUID) error
	listFn   func(ctx context.Context, sessionID uuid.UUID) ([]models.OrderLine, error)
	refineFn func(ctx context.Context, sessionID uuid.UUID) (int, error)
}

func (s *testLinesService) Create(ctx context.Context, input orderlines.CreateInput) (*models.OrderLine, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testLinesService) Update(ctx context.Context, lineID uuid.UUID, input orderlines.UpdateInput) (*models.OrderLine, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, lineID, input)
	}
	return nil, nil
}

func (s *testLinesService) Delete(ctx context.Context, lineID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, lineID)
	}
	return nil
}

func (s *testLinesService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderLine, error) {
	if s.listFn != nil {
		return s.listFn(ctx, sessionID)
	}
	return nil, nil
}

func (s *testLinesService) RefineSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if s.refineFn != nil {
		return s.refineFn(ctx, sessionID)
	}
	return 0, nil
}

func (s *testLinesService) ApplyRefinement(ctx context.Context, lineID uuid.UUID, result volume.Result) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestCreateLineSuccess(t *testing.T) {
	sessionID := uuid.New()
	svc := &testLinesService{
		createFn: func(ctx context.Context, input orderlines.CreateInput) (*models.OrderLine, error) {
			if input.SessionID != sessionID {
				t.Fatalf("unexpected session %s", input.SessionID)
			}
			return &models.OrderLine{
				ID:        uuid.New(),
				SessionID: input.SessionID,
				FileName:  input.FileName,
				Quantity:  input.Quantity,
				VolumeCC:  decimal.NewFromInt(10),
			}, nil
		},
	}

	payload := `{"sessionId":"` + sessionID.String() + `","fileName":"bracket.stl","fileSizeBytes":300000,"technology":"fdm","materialKey":"pla","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lines", strings.NewReader(payload))
	resp := httptest.NewRecorder()

	CreateLine(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data models.OrderLine `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.FileName != "bracket.stl" {
		t.Fatalf("unexpected file name %q", envelope.Data.FileName)
	}
}

func TestCreateLineRejectsUnknownFields(t *testing.T) {
	svc := &testLinesService{
		createFn: func(ctx context.Context, input orderlines.CreateInput) (*models.OrderLine, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lines", strings.NewReader(`{"bogus":true}`))
	resp := httptest.NewRecorder()

	CreateLine(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestUpdateLineParsesPathParam(t *testing.T) {
	lineID := uuid.New()
	called := false
	svc := &testLinesService{
		updateFn: func(ctx context.Context, id uuid.UUID, input orderlines.UpdateInput) (*models.OrderLine, error) {
			called = true
			if id != lineID {
				t.Fatalf("unexpected line id %s", id)
			}
			if input.Quantity == nil || *input.Quantity != 4 {
				t.Fatalf("unexpected quantity patch %+v", input)
			}
			return &models.OrderLine{ID: id, Quantity: 4}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/lines/"+lineID.String(), strings.NewReader(`{"quantity":4}`))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("lineId", lineID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()

	UpdateLine(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestRefreshLinesRequiresSession(t *testing.T) {
	svc := &testLinesService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lines/refresh", nil)
	resp := httptest.NewRecorder()

	RefreshLines(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestRefreshLinesReportsCount(t *testing.T) {
	sessionID := uuid.New()
	svc := &testLinesService{
		refineFn: func(ctx context.Context, sid uuid.UUID) (int, error) {
			if sid != sessionID {
				t.Fatalf("unexpected session %s", sid)
			}
			return 2, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lines/refresh?sessionId="+sessionID.String(), nil)
	resp := httptest.NewRecorder()

	RefreshLines(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["refinedLines"] != 2 {
		t.Fatalf("unexpected refined count %v", envelope.Data)
	}
}

func TestListLinesRequiresSession(t *testing.T) {
	svc := &testLinesService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lines", nil)
	resp := httptest.NewRecorder()

	ListLines(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
