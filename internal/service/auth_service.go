package service

import (
	"errors"
	"fmt"
	"time"

	"kidkicks/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// AdminTokenExpiration matches the admin cookie lifetime
	AdminTokenExpiration = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService gates the admin surface. There is a single admin credential
// pair taken from configuration; a successful login yields a signed token.
type AuthService interface {
	Login(username, password string) (token string, err error)
	ValidateToken(tokenString string) (*AdminClaims, error)
}

// AdminClaims represents the JWT claims of an admin session
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	adminUsername     string
	adminPasswordHash string
	jwtSecret         string
}

// NewAuthService creates a new instance of AuthService. When no bcrypt hash
// is configured the plaintext fallback password is hashed once at startup.
func NewAuthService(cfg config.AuthConfig) (AuthService, error) {
	passwordHash := cfg.AdminPasswordHash
	if passwordHash == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		passwordHash = string(hashed)
	}

	return &authService{
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: passwordHash,
		jwtSecret:         cfg.JWTSecret,
	}, nil
}

// Login checks the admin credentials and issues a signed admin token
func (s *authService) Login(username, password string) (string, error) {
	if username != s.adminUsername {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(AdminTokenExpiration)
	claims := &AdminClaims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an admin token and returns its claims
func (s *authService) ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Role != "admin" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
