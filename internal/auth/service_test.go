package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/internal/users"
	pkgAuth "github.com/dhruvpatel3d/printquote-backend/pkg/auth"
	"github.com/dhruvpatel3d/printquote-backend/pkg/auth/session"
	"github.com/dhruvpatel3d/printquote-backend/pkg/config"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "printquote",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginIssuesCustomerTokens(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "asha@example.com",
		PasswordHash: mustHashPassword(t, password),
		FullName:     "Asha Patel",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	cfg := testJWTConfig()
	svc, _ := buildTestService(t, user, cfg)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Asha@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "asha@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	svc, _ := buildTestService(t, user, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceAdminLoginRejectsCustomers(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "asha@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	svc, _ := buildTestService(t, user, testJWTConfig())

	_, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for customer on admin login, got %v", err)
	}
}

func TestServiceRegisterCreatesCustomer(t *testing.T) {
	svc, repo := buildTestService(t, nil, testJWTConfig())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New@Example.com",
		Password: "brand-new-secret",
		FullName: "New Customer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User == nil || resp.User.Email != "new@example.com" {
		t.Fatalf("expected normalized user email, got %+v", resp.User)
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", resp.User.Role)
	}
	if repo.user == nil {
		t.Fatalf("expected user to be persisted")
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Password: "another-secret",
		FullName: "Duplicate",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "asha@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	cfg := testJWTConfig()
	svc, _ := buildTestService(t, user, cfg)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatalf("expected a fresh token pair")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("expected refresh token to rotate")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("rotated token lost user identity")
	}

	// The old refresh token is dead after rotation.
	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized replaying old refresh token, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "asha@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	svc, _ := buildTestService(t, user, testJWTConfig())
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, LogoutRequest{AccessToken: login.AccessToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func buildTestService(t *testing.T, user *models.User, jwtCfg config.JWTConfig) (Service, *stubUserRepo) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: newStubSessionManager(),
		JWTConfig:      jwtCfg,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	s.user = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || !strings.EqualFold(s.user.Email, email) {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	sessions map[string]string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + uuid.NewString()
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + uuid.NewString()
	s.sessions[newAccessID] = token
	return newAccessID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	return nil
}
