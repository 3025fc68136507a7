package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stopshot/pkg/logger"
	"stopshot/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleKey    contextKey = "role"
	SubjectKey contextKey = "subject"
)

// Claims carried by staff and customer access tokens.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate resolves the caller's role from an HS256 bearer token.
// Requests without a token proceed as GUEST; a bad token is rejected.
func Authenticate(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), model.RoleGuest, "")))
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || secret == "" {
				rejectUnauthorized(w, log, r, "unsupported authorization header")
				return
			}

			claims, err := ParseToken(secret, raw)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			ctx := WithIdentity(r.Context(), claims.Role, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ParseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role == "" {
		claims.Role = model.RoleCustomer
	}
	return claims, nil
}

// IssueToken signs an access token for subject with the given role.
func IssueToken(secret, subject string, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func WithIdentity(ctx context.Context, role model.Role, subject string) context.Context {
	ctx = context.WithValue(ctx, RoleKey, role)
	return context.WithValue(ctx, SubjectKey, subject)
}

func RoleFromContext(ctx context.Context) model.Role {
	if role, ok := ctx.Value(RoleKey).(model.Role); ok && role != "" {
		return role
	}
	return model.RoleGuest
}

func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Authentication failed",
		"request_id", RequestIDFrom(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","code":"UNAUTHORIZED"}`))
}
