package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionRevoked = errors.New("session signed out")
)

// Identity is what the rest of the application knows about a signed-in user.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
	Token     string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RevocationList remembers access tokens that were signed out before expiry.
type RevocationList interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type redisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(client *redis.Client) RevocationList {
	return &redisRevocationList{client: client}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:revoked:" + hex.EncodeToString(sum[:])
}

func (r *redisRevocationList) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return r.client.Set(ctx, revocationKey(token), "1", ttl).Err()
}

func (r *redisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SessionService verifies access tokens issued by the managed auth service.
// It never issues tokens itself.
type SessionService struct {
	keyfunc jwt.Keyfunc
	revoked RevocationList
}

// NewSessionService verifies against the JWKS at jwksURL when set, otherwise
// against the shared HS256 secret. revoked may be nil.
func NewSessionService(ctx context.Context, secret, jwksURL string, revoked RevocationList) (*SessionService, error) {
	s := &SessionService{revoked: revoked}

	switch {
	case jwksURL != "":
		k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS: %w", err)
		}
		s.keyfunc = k.Keyfunc
	case secret != "":
		s.keyfunc = func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		}
	default:
		return nil, errors.New("AUTH_JWT_SECRET or AUTH_JWKS_URL must be set")
	}

	return s, nil
}

// Verify checks the token signature, expiry and revocation. Revocation lookups
// that fail are logged and the token is accepted.
func (s *SessionService) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, s.keyfunc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing subject or expiry", ErrInvalidSession)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, token)
		if err != nil {
			log.WithError(err).Warn("Session revocation lookup failed")
		} else if revoked {
			return nil, ErrSessionRevoked
		}
	}

	return &Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}, nil
}

// Revoke signs the identity out until its token would have expired anyway.
func (s *SessionService) Revoke(ctx context.Context, id *Identity) error {
	if s.revoked == nil || id == nil {
		return nil
	}
	ttl := time.Until(id.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, id.Token, ttl)
}
