package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvpatel3d/printquote-backend/internal/auth"
	"github.com/dhruvpatel3d/printquote-backend/internal/catalog"
	"github.com/dhruvpatel3d/printquote-backend/internal/orderlines"
	"github.com/dhruvpatel3d/printquote-backend/internal/quotes"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	pkgAuth "github.com/dhruvpatel3d/printquote-backend/pkg/auth"
	"github.com/dhruvpatel3d/printquote-backend/pkg/config"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{ auth.Service }

type stubCatalogService struct{ catalog.Service }

func (stubCatalogService) Options(ctx context.Context) (*catalog.OptionsResult, error) {
	return &catalog.OptionsResult{Technologies: enums.Technologies()}, nil
}

type stubSettingsService struct{ settings.Service }

type stubLinesService struct{ orderlines.Service }

type stubQuotesService struct{ quotes.Service }

func (stubQuotesService) PeekNumber(ctx context.Context) (string, error) {
	return "QT10002", nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "printquote",
			ExpirationMinutes: 30,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:              stubPinger{},
		Sessions:        stubSessionChecker{},
		AuthService:     stubAuthService{},
		CatalogService:  stubCatalogService{},
		SettingsService: stubSettingsService{},
		LinesService:    stubLinesService{},
		QuotesService:   stubQuotesService{},
	})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestPricingOptionsRequiresAuth(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/options", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/pricing/options", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/quotations/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", resp.Code)
	}
}

func TestPeekNumberRoute(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote/peek-number", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if body := resp.Body.String(); !strings.Contains(body, "QT10002") {
		t.Fatalf("expected peeked number in body, got %s", body)
	}
}
