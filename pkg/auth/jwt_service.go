package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "cv-portfolio-admin"

type JWTService struct {
	secretKey     []byte
	tokenLifespan time.Duration
	now           func() time.Time
}

// SessionClaims is what an admin session token carries. The password digest never
// leaves the credential table, so it has no field here.
type SessionClaims struct {
	SessionID   string                     `json:"session_id"`
	Email       string                     `json:"email"`
	Role        string                     `json:"role"`
	Permissions map[string]map[string]bool `json:"permissions"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey string, tokenLifespan time.Duration) *JWTService {
	return &JWTService{
		secretKey:     []byte(secretKey),
		tokenLifespan: tokenLifespan,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

func (s *JWTService) Lifespan() time.Duration {
	return s.tokenLifespan
}

func (s *JWTService) GenerateToken(claims SessionClaims) (string, *SessionClaims, error) {
	issuedAt := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenLifespan)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		Subject:   claims.Email,
		ID:        claims.SessionID,
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("cannot sign token: %w", err)
	}

	return signedString, &claims, nil
}

// ValidateToken verifies signature, issuer and expiry. An expired but authentic token
// returns its claims together with the error.
func (s *JWTService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, s.keyFunc,
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if claims, ok := s.expiredClaims(tokenString); ok {
				return claims, fmt.Errorf("invalid token: %w", err)
			}
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("error when parsing token claims")
}

func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("invalid signature algorithm: %v", token.Header["alg"])
	}
	return s.secretKey, nil
}

// expiredClaims re-parses a token that failed only on time checks, verifying the
// signature before its claims are trusted.
func (s *JWTService) expiredClaims(tokenString string) (*SessionClaims, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, s.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Issuer != issuer {
		return nil, false
	}
	return claims, true
}

// IsExpired reports whether err came from validating a token past its expiry.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
