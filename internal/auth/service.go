package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/rmoralesdev/mediavault-backend/pkg/auth"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	adminCfg config.AdminConfig
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService constructs a login service checking the statically configured
// administrator credential pair.
func NewService(adminCfg config.AdminConfig, jwtCfg config.JWTConfig) (Service, error) {
	if strings.TrimSpace(adminCfg.Username) == "" {
		return nil, fmt.Errorf("admin username is required")
	}
	if adminCfg.PasswordHash == "" && adminCfg.Password == "" {
		return nil, fmt.Errorf("admin password or password hash is required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &service{
		adminCfg: adminCfg,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Login(_ context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	if !security.ConstantTimeEquals(username, s.adminCfg.Username) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !s.passwordMatches(req.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		Subject: username,
		IsAdmin: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.TokenTTL()),
	}, nil
}

func (s *service) passwordMatches(password string) bool {
	if s.adminCfg.PasswordHash != "" {
		ok, err := security.VerifyPassword(password, s.adminCfg.PasswordHash)
		return err == nil && ok
	}
	// Plaintext fallback for local setups only; flagged unsafe at boot.
	return security.ConstantTimeEquals(password, s.adminCfg.Password)
}
