// Package services holds the authentication contract: login, refresh,
// registration and current-user lookup over the repository manager.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/cryptox"
	"github.com/dmitrijs2005/runauth/internal/logging"
	"github.com/dmitrijs2005/runauth/internal/server/auth"
	"github.com/dmitrijs2005/runauth/internal/server/config"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	UserID       string
}

type AuthService struct {
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	codec       *auth.Codec
	rotate      bool
	logger      logging.Logger
	now         func() time.Time

	// dummyHash is verified when the user does not exist, so an unknown
	// username costs the same as a wrong password.
	dummyHash string
}

func NewAuthService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*AuthService, error) {
	hasher, err := cryptox.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	dummy, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummyHash, err := hasher.Hash(dummy)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &AuthService{
		repomanager: m,
		hasher:      hasher,
		codec:       auth.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration),
		rotate:      cfg.RotateRefreshTokens,
		logger:      logger,
		now:         time.Now,
		dummyHash:   dummyHash,
	}, nil
}

// Login verifies the credentials and issues a token pair. The refresh token
// replaces whatever the user had stored before.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, s.unavailable(ctx, "login", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	access, err := s.codec.IssueAccess(user.UserName)
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}
	refresh, err := s.codec.IssueRefresh(user.UserName)
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}

	if err := s.repomanager.Users().SetRefreshToken(ctx, user.ID, refresh); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, s.unavailable(ctx, "login", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    common.TokenTypeBearer,
		UserID:       user.ID,
	}, nil
}

// Refresh exchanges the user's current refresh token for a new access
// token. Only the token stored by the latest login (or rotation) is accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users().GetUserByLogin(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, s.unavailable(ctx, "refresh", err)
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, common.ErrorUnauthorized
	}

	access, err := s.codec.IssueAccess(user.UserName)
	if err != nil {
		return nil, s.internal(ctx, "refresh", err)
	}

	next := refreshToken
	if s.rotate {
		if next, err = s.codec.IssueRefresh(user.UserName); err != nil {
			return nil, s.internal(ctx, "refresh", err)
		}
		// Two concurrent refreshes with the same token: only one swap wins.
		if err := s.repomanager.Users().SwapRefreshToken(ctx, user.ID, refreshToken, next); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, s.unavailable(ctx, "refresh", err)
		}
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: next,
		TokenType:    common.TokenTypeBearer,
	}, nil
}

// Register creates the user and its statistics record in one unit of work.
func (s *AuthService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	_, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.unavailable(ctx, "register", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) || errors.Is(err, cryptox.ErrEmptyPassword) {
			return nil, fmt.Errorf("%w: %w", common.ErrorInvalidInput, err)
		}
		return nil, s.internal(ctx, "register", err)
	}

	now := s.now().UTC()
	user := &models.User{UserName: userName, PasswordHash: hash, CreatedAt: now}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Users().Create(ctx, user); err != nil {
			return err
		}
		_, err := repos.Statistics().Create(ctx, models.NewStatistics(user.ID, now))
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, s.unavailable(ctx, "register", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// WhoAmI returns the public profile of the user named by an access token.
func (s *AuthService) WhoAmI(ctx context.Context, userName string) (*models.Profile, error) {
	if userName == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, s.unavailable(ctx, "me", err)
	}

	return user.Profile(), nil
}

// Authenticate decodes an access token and returns its subject.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.codec.Decode(token, auth.TokenTypeAccess)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", common.ErrorUnauthorized
	}
	return claims.Subject, nil
}

func (s *AuthService) unavailable(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "store call failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrorUnavailable, op, err)
}

func (s *AuthService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "token or hash failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
}
