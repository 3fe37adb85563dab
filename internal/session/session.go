// Package session resolves the current user for a request from an optional
// bearer token and exposes it as request-scoped context. It replaces any
// ambient current-user lookup: handlers and the profile join receive the
// identity explicitly.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// RoleAdministrator grants the admin flag in thread responses.
const RoleAdministrator = "administrator"

// AnonymousUID is the uid assigned to requests without a valid session.
const AnonymousUID uint64 = 0

const contextKey = "comments_session_user"

// UserContext is the request-scoped identity resolved by the middleware.
// The zero value is the anonymous user.
type UserContext struct {
	UID   uint64
	Roles []string
}

// IsAdmin reports whether the user carries the administrator role.
func (u UserContext) IsAdmin() bool {
	for _, role := range u.Roles {
		if role == RoleAdministrator {
			return true
		}
	}
	return false
}

// Claims is the bearer token payload: registered claims plus role names.
// The subject holds the numeric uid.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// MiddlewareConfig configures session resolution.
type MiddlewareConfig struct {
	SigningSecret []byte
	Logger        *zap.Logger
	Clock         func() time.Time
}

// Middleware resolves the current user from an optional Authorization bearer
// token. Requests without a token, with an unverifiable token, or when no
// signing secret is configured proceed anonymously; session failures never
// fail the request itself.
func Middleware(cfg MiddlewareConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return func(c *gin.Context) {
		user := UserContext{UID: AnonymousUID}

		header := c.GetHeader("Authorization")
		if len(cfg.SigningSecret) > 0 && strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			resolved, err := resolveUser(token, cfg.SigningSecret, clock)
			if err != nil {
				logger.Warn("session token rejected", zap.Error(err))
			} else {
				user = resolved
			}
		}

		c.Set(contextKey, user)
		c.Next()
	}
}

// FromContext returns the user resolved for this request; anonymous when the
// middleware did not run.
func FromContext(c *gin.Context) UserContext {
	value, ok := c.Get(contextKey)
	if !ok {
		return UserContext{UID: AnonymousUID}
	}
	user, ok := value.(UserContext)
	if !ok {
		return UserContext{UID: AnonymousUID}
	}
	return user
}

func resolveUser(token string, secret []byte, clock func() time.Time) (UserContext, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm: %s", token.Method.Alg())
			}
			return secret, nil
		},
		jwt.WithTimeFunc(clock),
	)
	if err != nil {
		return UserContext{}, err
	}

	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return UserContext{}, fmt.Errorf("session: non-numeric subject %q", claims.Subject)
	}

	return UserContext{UID: uid, Roles: claims.Roles}, nil
}
