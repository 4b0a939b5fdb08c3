package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const issuer = "finstinct-storefront"

// ProfileClaims identify a browser profile; Subject is the profile id
type ProfileClaims struct {
	jwt.RegisteredClaims
}

// ProfileTokens signs and checks the profile cookie
type ProfileTokens struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewProfileTokens(secretKey string, ttl time.Duration) *ProfileTokens {
	return &ProfileTokens{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// NewProfile mints a fresh profile id and its token
func (s *ProfileTokens) NewProfile() (string, string, time.Time, error) {
	profileID := uuid.NewString()
	token, expiresAt, err := s.Issue(profileID)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return profileID, token, expiresAt, nil
}

// Issue signs a token for profileID
func (s *ProfileTokens) Issue(profileID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := ProfileClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   profileID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Validate checks the signature and expiry and returns the claims
func (s *ProfileTokens) Validate(tokenString string) (*ProfileClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ProfileClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ProfileClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// NeedsRefresh reports whether less than half of the lifetime remains
func (s *ProfileTokens) NeedsRefresh(claims *ProfileClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Sub(s.now()) < s.ttl/2
}

// TTL returns the token lifetime
func (s *ProfileTokens) TTL() time.Duration {
	return s.ttl
}
