// Package services contains the server-side business logic: accounts and
// tokens, diaries, the time capsule lifecycle and the notebook design
// catalog.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/auth"
	"github.com/ardenspace/space3-your-journey/internal/server/config"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService signs users up and in and rotates their refresh tokens.
// Failures users can act on are reported as *auth.Error.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	hashCost                     int
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		hashCost:                     bcrypt.DefaultCost,
		now:                          time.Now,
	}
}

// Register creates an account for email.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, auth.NewError(auth.KindEmailInUse, err)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a new TokenPair.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, auth.NewError(auth.KindUserNotFound, err)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if user.Disabled {
		return nil, auth.NewError(auth.KindUserDisabled, nil)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, auth.NewError(auth.KindWrongPassword, nil)
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken exchanges a refresh token for a new pair. The presented
// token is consumed in the same transaction that stores its successor.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("error searching user: %w", err)
		}
		if user.Disabled {
			return auth.NewError(auth.KindUserDisabled, nil)
		}

		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		pair, err = s.generateTokenPair(ctx, token.UserID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: access token: %w", common.ErrorInternal, err)
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %w", common.ErrorInternal, err)
	}

	err = s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: store refresh token: %w", common.ErrorInternal, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
