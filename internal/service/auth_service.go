package service

import (
	"fmt"
	"time"

	"driftnote-server/internal/domain"
	"driftnote-server/pkg/hash"
	"driftnote-server/pkg/jwt"
)

// sessionSubject identifies the single owner of a self-hosted deployment.
const sessionSubject = "owner"

// AuthService guards the HTTP surface with one deployment password.
// The configured password is bcrypt-hashed at construction so the plain
// text is not kept around for the lifetime of the process.
type AuthService struct {
	passwordHash  string
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(password, jwtSecret string, jwtExp time.Duration) (*AuthService, error) {
	passwordHash, err := hash.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash deployment password: %w", err)
	}

	return &AuthService{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}, nil
}

func (s *AuthService) Login(req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if err := hash.Compare(s.passwordHash, req.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	accessToken, err := jwt.GenerateToken(sessionSubject, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtExpiration.Seconds()),
	}, nil
}

func (s *AuthService) ValidateToken(token string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
