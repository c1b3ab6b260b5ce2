package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"mizan/config"
	"mizan/internal/auth"
	"mizan/internal/models"
	"mizan/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid username or password")
)

const (
	minPasswordLen = 6
	minUsernameLen = 3
	maxUsernameLen = 64
)

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

type AuthService struct {
	cfg      *config.JWTConfig
	db       *gorm.DB
	userRepo *repository.UserRepository
	log      *zap.Logger
}

func NewAuthService(cfg *config.JWTConfig, gdb *gorm.DB, userRepo *repository.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, db: gdb, userRepo: userRepo, log: log.Named("auth")}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, &ValidationError{Field: "username", Message: "must be between 3 and 64 characters"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(password) < minPasswordLen {
		return nil, &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}

	users := s.userRepo.WithTx(s.db.WithContext(ctx))
	if taken, err := users.ExistsByUsername(username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameExists
	}
	if taken, err := users.ExistsByEmail(email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := users.Create(u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID))
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.userRepo.WithTx(s.db.WithContext(ctx)).GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCreds
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCreds
	}
	return s.issue(u)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := auth.ParseRefreshToken(s.cfg, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.WithTx(s.db.WithContext(ctx)).GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	access, err := auth.GenerateAccessToken(s.cfg, u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(s.cfg, u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: access, RefreshToken: refresh, Username: u.Username, Email: u.Email}, nil
}
