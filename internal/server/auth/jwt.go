// Package auth implements the token issuer: creation and verification of
// the two signed token kinds (access, refresh) used by the session flow.
// Each kind has its own HMAC secret and validity duration, so long-lived
// refresh tokens can be revoked independently of short-lived access tokens.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
)

// Config carries the signing material for both token kinds. It is injected
// explicitly at construction, never read from ambient globals.
type Config struct {
	AccessSecret                 []byte
	RefreshSecret                []byte
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
}

// AccessClaims are carried by access tokens: the identity id plus the public
// profile fields handlers commonly need without a database round-trip.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// RefreshClaims carry only the identity id.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{cfg: cfg}
}

// IssueAccessToken signs an access token for the user. Every token gets a
// fresh jti so two issuances never collide byte-for-byte.
func (i *Issuer) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTokenValidityDuration)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Fullname: user.Fullname,
		Email:    user.Email,
	})
	return token.SignedString(i.cfg.AccessSecret)
}

// IssueRefreshToken signs a refresh token for the user.
func (i *Issuer) IssueRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTokenValidityDuration)),
		},
		UserID: user.ID,
	})
	return token.SignedString(i.cfg.RefreshSecret)
}

// VerifyAccessToken parses and validates an access token. Expired, forged
// and malformed tokens all surface as common.ErrInvalidToken so callers
// cannot distinguish which check failed.
func (i *Issuer) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.verify(tokenString, claims, i.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token.
func (i *Issuer) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.verify(tokenString, claims, i.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i *Issuer) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return common.ErrInvalidToken
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
