package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"photo-manager-api/internal/application/ports"
	"photo-manager-api/internal/domain/user"
	"photo-manager-api/internal/infrastructure/jwt"
)

const tokenTTL = time.Hour

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

type AuthService struct {
	jwtService *jwt.Service
}

func NewAuthService(jwtService *jwt.Service) ports.Auth {
	return &AuthService{
		jwtService: jwtService,
	}
}

// GenerateToken issues a token whose principal is the user's public UUID.
func (as *AuthService) GenerateToken(u *user.User, requestPassword string) (string, error) {
	if u == nil || u.PasswordHash == nil {
		return "", ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(requestPassword))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Role, tokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}
