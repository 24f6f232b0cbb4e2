package middleware

import (
	"net/http"
	"os"
	"strings"

	"sigrap/internal/authz"
	"sigrap/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ctxSubjectKey = "authSubject"
	ctxUserIDKey  = "userID"
	ctxRoleKey    = "userRole"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// SubjectFrom returns the authenticated subject resolved by RequireAuth,
// or an anonymous subject if the middleware did not run.
func SubjectFrom(c *gin.Context) authz.Subject {
	if v, ok := c.Get(ctxSubjectKey); ok {
		if subject, ok := v.(authz.Subject); ok {
			return subject
		}
	}
	return authz.Anonymous()
}

// extractToken reads the JWT from the access_token cookie with an
// Authorization Bearer header fallback.
func extractToken(c *gin.Context) (string, bool) {
	if tokenString, err := c.Cookie("access_token"); err == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func resolveSubject(c *gin.Context) (authz.Subject, bool) {
	tokenString, ok := extractToken(c)
	if !ok {
		return authz.Anonymous(), false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return authz.Anonymous(), false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authz.Anonymous(), false
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return authz.Anonymous(), false
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return authz.Anonymous(), false
	}

	return authz.Subject{ID: userID, Role: role, Authenticated: true}, true
}

// RequireAuth validates the JWT and stores the resolved subject in the context
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := resolveSubject(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error(http.StatusUnauthorized, "Authorization is missing or invalid"))
			return
		}

		c.Set(ctxSubjectKey, subject)
		c.Set(ctxUserIDKey, subject.ID.String())
		c.Set(ctxRoleKey, subject.Role)
		c.Next()
	}
}

// RequirePermission validates the JWT and asks the policy evaluator whether the
// subject's role may perform action on resource. The policy table is immutable
// and in-memory, so the check is a pure map lookup with no DB round trip.
func RequirePermission(evaluator *authz.Evaluator, resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := resolveSubject(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error(http.StatusUnauthorized, "Authorization is missing or invalid"))
			return
		}

		c.Set(ctxSubjectKey, subject)
		c.Set(ctxUserIDKey, subject.ID.String())
		c.Set(ctxRoleKey, subject.Role)

		if !evaluator.Authorize(subject, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}
