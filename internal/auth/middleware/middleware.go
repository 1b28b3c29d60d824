package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	"github.com/aksamedia/aksamedia-admin/internal/rbac"
)

const issuer = "aksamedia-admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Revocations remembers logged-out token ids until they expire.
type Revocations interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	hmac    []byte
	ttl     time.Duration
	revoked Revocations
	now     func() time.Time
}

func NewAuthService(secret string, ttl time.Duration, revoked Revocations) *AuthService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &AuthService{hmac: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "admin" or "viewer"
	jwt.RegisteredClaims
}

// IssueJWT signs an HS256 token for sub carrying a fresh jti.
func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := a.now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

// Parse verifies signature, issuer and expiry, then checks the revocation list.
func (a *AuthService) Parse(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.ID == "" {
		return nil, ErrInvalidToken
	}
	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return c, nil
}

// Revoke invalidates the token described by c.
func (a *AuthService) Revoke(ctx context.Context, c *Claims) error {
	if a.revoked == nil {
		return nil
	}
	exp := a.now().Add(a.ttl)
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	return a.revoked.Revoke(ctx, c.ID, exp)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tok, tok != ""
}

// JWTMiddleware rejects requests without a valid, unrevoked bearer token and puts
// the subject, role and claims into the request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := BearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			c, err := a.Parse(r.Context(), tok)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenRevoked) {
					respond.Error(w, http.StatusUnauthorized, "Unauthenticated")
					return
				}
				respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred")
				return
			}
			ctx := WithSubject(r.Context(), c.Sub)
			ctx = WithClaims(ctx, c)
			ctx = rbac.WithRole(ctx, c.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
