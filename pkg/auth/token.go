// Package auth issues and resolves bearer credentials. Two
// implementations exist: an opaque token that is simply the user's
// decimal id, and HS256-signed JWTs for deployments that need
// verifiable tokens. Everything past Resolve deals only in user ids.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
)

type TokenService interface {
	// Issue mints the bearer token returned at login.
	Issue(user *model.User) (string, error)
	// Resolve maps a presented token to the caller's user id.
	Resolve(token string) (int64, error)
}

// StaticTokenService treats the token as the user's decimal id.
type StaticTokenService struct{}

func NewStaticTokenService() *StaticTokenService {
	return &StaticTokenService{}
}

func (s *StaticTokenService) Issue(user *model.User) (string, error) {
	return strconv.FormatInt(user.ID, 10), nil
}

func (s *StaticTokenService) Resolve(token string) (int64, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.Unauthorized, "invalid token")
	}
	return id, nil
}

// JWTService signs and verifies HS256 tokens with the user id as
// subject.
type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), expiry: expiry}
}

func (s *JWTService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "failed to sign token", err)
	}
	return signed, nil
}

func (s *JWTService) Resolve(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.New(apperror.Unauthorized, "unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperror.New(apperror.Unauthorized, "invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, apperror.New(apperror.Unauthorized, "invalid token claims")
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.Unauthorized, "invalid token subject")
	}
	return id, nil
}
