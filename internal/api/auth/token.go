package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamcook/account-api/config"
	"github.com/teamcook/account-api/internal/types"
)

// TokenService issues and verifies the signed, self-contained access tokens.
// Tokens are opaque to clients; possession of the signing secret is required
// to forge one.
type TokenService interface {
	Issue(subjectID, role string) (string, error)
	Verify(tokenString string) (*types.Claims, error)
}

type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

var _ TokenService = (*JWTTokenService)(nil)

func NewTokenService(cfg config.AuthConfig) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Test hook only.
func (s *JWTTokenService) WithClock(now func() time.Time) *JWTTokenService {
	s.now = now
	return s
}

// Issue signs an HS256 token carrying the subject id and role, expiring
// ttl (24h by default) after issuance.
func (s *JWTTokenService) Issue(subjectID, role string) (string, error) {
	now := s.now()
	claims := &types.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// claims. Every failure mode — malformed payload, bad signature, expiry —
// collapses into types.ErrUnauthenticated; the underlying cause is kept in
// the message for logs only.
func (s *JWTTokenService) Verify(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, types.ErrUnauthenticated
	}
	return claims, nil
}
