package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

// AuthService implements registration, login, and profile lookup. Session
// tokens are HS256 JWTs recorded in the session store so that a login while
// a token is still live reuses it instead of minting a second one.
type AuthService struct {
	repo      ports.AuthRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies the credentials against the identity store. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Reuse the live session when one exists.
	if token, err := s.sessions.ActiveToken(ctx, user.ID); err == nil && s.tokenUsable(token, user.ID) {
		return token, user, nil
	} else if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	if err := s.sessions.Save(ctx, token, user.ID, s.tokenTTL); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewValidationError("username", "A user with that username already exists.")
		}
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// tokenUsable reports whether a stored token still verifies for userID. An
// expired token, or one signed under an older secret, is discarded and a
// fresh one minted.
func (s *AuthService) tokenUsable(token string, userID int64) bool {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	sub, _ := claims["sub"].(string)
	return sub == strconv.FormatInt(userID, 10)
}
