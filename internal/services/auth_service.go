package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"mclub-backend/internal/models"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	db            *sql.DB
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(db *sql.DB, jwtSecret string, jwtExpirationSeconds int) *AuthService {
	return &AuthService{
		db:            db,
		jwtSecret:     jwtSecret,
		jwtExpiration: time.Duration(jwtExpirationSeconds) * time.Second,
	}
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	MemberID string `json:"memberId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Login verifies credentials and returns a signed token with the member
func (s *AuthService) Login(email, password string) (string, *models.Member, error) {
	if email == "" || password == "" {
		return "", nil, models.NewValidationError("email and password are required")
	}

	member, err := NewMemberService(s.db).GetMemberByEmail(email)
	if err != nil {
		if models.ErrorKindOf(err) == models.ErrorKindNotFound {
			return "", nil, models.NewValidationError("invalid email or password")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", nil, models.NewValidationError("invalid email or password")
	}
	if !member.IsActive() {
		return "", nil, models.NewInvalidStateError("account is inactive")
	}

	token, err := s.GenerateToken(member)
	if err != nil {
		return "", nil, err
	}
	return token, member, nil
}

// GenerateToken generates a JWT token for a member
func (s *AuthService) GenerateToken(member *models.Member) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		MemberID: member.ID,
		Email:    member.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "mclub",
			Subject:   member.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
