package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"maverick/dispatch/internal/constants"
)

// tokenClaims is the bearer token payload issued by the identity service.
type tokenClaims struct {
	TenantID  string `json:"tenant_id"`
	Role      string `json:"role"`
	StudentID string `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens.
type TokenService struct {
	secretKey []byte
}

func NewTokenService(secretKey []byte) *TokenService {
	return &TokenService{secretKey: secretKey}
}

// Issue signs a token for the given identity. Used by dispatchctl and tests.
func (s *TokenService) Issue(userID, tenantID string, role constants.Role, studentID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		TenantID:  tenantID,
		Role:      string(role),
		StudentID: studentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a bearer token and converts it into request claims.
func (s *TokenService) Parse(tokenString string) (*JWTClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.Subject == "" || claims.TenantID == "" {
		return nil, errors.New("invalid token: subject and tenant are required")
	}

	role, err := constants.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return &JWTClaims{
		UserUUID:    claims.Subject,
		TenantUUID:  claims.TenantID,
		RoleValue:   role,
		StudentUUID: claims.StudentID,
	}, nil
}
