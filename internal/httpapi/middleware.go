package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/johdel/machinery/internal/auth"
)

const (
	sessionContextKey = "session"
	cartKeyContextKey = "cartKey"

	cartKeyCookie     = "cart_key"
	accessTokenCookie = "access_token"

	loginPath        = "/login"
	unauthorizedPath = "/unauthorized"
)

// CartKey assigns every visitor a device key for their cart, stored in
// a long-lived cookie. Carts exist before login.
func CartKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(cartKeyCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetCookie(cartKeyCookie, key, 60*60*24*365, "/", "", false, true)
		}
		c.Set(cartKeyContextKey, key)
		c.Next()
	}
}

func cartKey(c *gin.Context) string {
	return c.GetString(cartKeyContextKey)
}

// RequireSession resolves the caller's token into a session on every
// request, so a sign-out takes effect on the next navigation. Browser
// navigations get redirected to the login page with the original path
// preserved; API calls get a 401 envelope.
func RequireSession(client auth.Client, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := client.GetSession(c.Request.Context(), bearerToken(c))
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				log.Warn("session lookup failed", slog.Any("err", err))
			}
			rejectUnauthenticated(c)
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireRole gates admin-designated paths. The role comes from the
// profiles table, not from the token, so demotions apply immediately.
// Mismatch and lookup failure both land on the unauthorized page; the
// response stays generic either way.
func RequireRole(role string, profiles auth.ProfileRepo, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess == nil {
			rejectUnauthenticated(c)
			return
		}

		got, err := profiles.Role(c.Request.Context(), sess.UserID)
		if err != nil {
			log.Warn("role lookup failed",
				slog.String("user_id", sess.UserID), slog.Any("err", err))
			rejectUnauthorized(c)
			return
		}
		if got != role {
			rejectUnauthorized(c)
			return
		}

		c.Next()
	}
}

func sessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tok, err := c.Cookie(accessTokenCookie); err == nil {
		return tok
	}
	return ""
}

func rejectUnauthenticated(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "UNAUTHENTICATED",
			Message: "Please log in to continue",
		})
		return
	}
	target := loginPath + "?redirectTo=" + url.QueryEscape(c.Request.URL.Path)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

func rejectUnauthorized(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error:   "UNAUTHORIZED",
			Message: "You do not have access to this resource",
		})
		return
	}
	c.Redirect(http.StatusFound, unauthorizedPath)
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
