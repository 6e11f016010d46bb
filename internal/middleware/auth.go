package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"cipherhaven/internal/models"
)

const (
	ctxClaims    = "claims"
	ctxAccountID = "account_id"
	ctxRoleID    = "role_id"
	leeway       = 2 * time.Minute
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are issued by this service after the provider session was activated.
// RoleID comes from the accounts table, never from provider metadata.
type Claims struct {
	AccountID      int64  `json:"account_id"`
	ProviderUserID string `json:"provider_user_id"`
	SessionID      string `json:"sid"`
	RoleID         int    `json:"role_id"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies HS256 session tokens.
type SessionTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *SessionTokens) Issue(acc *models.Account, sessionID string) (string, error) {
	now := s.now()
	claims := &Claims{
		AccountID:      acc.ID,
		ProviderUserID: acc.ProviderUserID,
		SessionID:      sessionID,
		RoleID:         acc.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(acc.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *SessionTokens) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.key, nil
	}, jwt.WithLeeway(leeway), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	return tokenStr, tokenStr != ""
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ctxClaims, claims)
	c.Set(ctxAccountID, claims.AccountID)
	c.Set(ctxRoleID, claims.RoleID)
}

// AuthMiddleware rejects requests without a valid session token.
func AuthMiddleware(tokens *SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and lets anonymous requests through.
func OptionalAuth(tokens *SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := tokens.Parse(tokenStr); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// ClaimsFrom returns the verified claims of the request, or nil for anonymous callers.
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
