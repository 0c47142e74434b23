// Package auth issues and validates the JWTs that authenticate both the
// HTTP API and the WebSocket connect handshake.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims carries the authenticated identity. Subject is the user ID;
// Role mirrors the user's marketplace role at issue time.
type Claims struct {
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

// Config selects the signing method and its key material.
type Config struct {
	SigningMethod string // HS256 or RS256
	Secret        string // HS256
	PublicKeyPEM  string // RS256 verification
	PrivateKeyPEM string // RS256 signing, only needed by the issuer
	Issuer        string
	Expiry        time.Duration
}

// Service validates tokens and, when signing material is configured,
// issues them.
type Service struct {
	method     jwt.SigningMethod
	secret     []byte
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
	issuer     string
	expiry     time.Duration
}

func NewService(cfg Config) (*Service, error) {
	s := &Service{
		issuer: cfg.Issuer,
		expiry: cfg.Expiry,
	}
	// Only an unset expiry gets the default; a negative one is taken as
	// given so callers can mint already-expired tokens.
	if s.expiry == 0 {
		s.expiry = 24 * time.Hour
	}

	switch cfg.SigningMethod {
	case "", "HS256":
		s.method = jwt.SigningMethodHS256
		if cfg.Secret == "" {
			return nil, errors.New("secret required for HS256")
		}
		s.secret = []byte(cfg.Secret)
	case "RS256":
		s.method = jwt.SigningMethodRS256
		if cfg.PublicKeyPEM == "" {
			return nil, errors.New("public key required for RS256")
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		s.publicKey = pub
		if cfg.PrivateKeyPEM != "" {
			priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
			if err != nil {
				return nil, fmt.Errorf("parse private key: %w", err)
			}
			s.privateKey = priv
		}
	default:
		return nil, fmt.Errorf("unsupported signing method: %s", cfg.SigningMethod)
	}
	return s, nil
}

// ValidateToken parses and verifies a token, accepting an optional
// "Bearer " prefix, and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != s.method {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		if s.method == jwt.SigningMethodRS256 {
			return s.publicKey, nil
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}
	return claims, nil
}

// IssueToken signs a token for the given user.
func (s *Service) IssueToken(userID, phone, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Phone: phone,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	if s.method == jwt.SigningMethodRS256 {
		if s.privateKey == nil {
			return "", errors.New("no private key configured for signing")
		}
		return token.SignedString(s.privateKey)
	}
	return token.SignedString(s.secret)
}

type contextKey string

const userContextKey contextKey = "authUser"

// UserContext is the authenticated identity placed on request contexts.
type UserContext struct {
	UserID string
	Phone  string
	Role   string
}

func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}
