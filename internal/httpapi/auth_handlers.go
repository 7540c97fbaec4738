package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johdel/machinery/internal/auth"
)

type AuthHandler struct {
	client auth.Client
}

func NewAuthHandler(client auth.Client) *AuthHandler {
	return &AuthHandler{client: client}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login. The token is also set as a
// cookie so browser navigations carry the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Email and password are required",
			Details: err.Error(),
		})
		return
	}

	sess, err := h.client.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "UNAUTHENTICATED",
			Message: "Invalid email or password",
		})
		return
	}

	c.SetCookie(accessTokenCookie, sess.AccessToken, 60*60*24, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"user_id":      sess.UserID,
		"email":        sess.Email,
		"access_token": sess.AccessToken,
	})
}

// Logout handles POST /api/v1/auth/logout. The next guarded
// navigation redirects to login.
func (h *AuthHandler) Logout(c *gin.Context) {
	tok := bearerToken(c)
	if tok != "" {
		// Best effort; the cookie is dropped either way.
		_ = h.client.SignOut(c.Request.Context(), tok)
	}
	c.SetCookie(accessTokenCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
