package middleware

import (
	"net/http"

	"visitlog/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware guards the visit pages. The session_id cookie must
// resolve to a live session row and its user; anything else fails closed
// to the login view.
func SessionMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("session_id")
		if err != nil || token == "" {
			c.HTML(http.StatusOK, "login.html", gin.H{"ErrorMessage": "Session expired."})
			c.Abort()
			return
		}

		session, err := authService.GetSession(token)
		if err != nil {
			c.HTML(http.StatusOK, "login.html", gin.H{"ErrorMessage": "Session expired."})
			c.Abort()
			return
		}

		c.Set("user", &session.User)
		c.Set("session", session)

		c.Next()
	}
}
