package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/services"
)

// setAuthCookies attaches both tokens as HTTP-only, Secure cookies. The
// cookie lifetimes follow the token validity durations.
func (s *Server) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	setTokenCookie(c, common.AccessTokenCookieName, pair.AccessToken, s.accessTokenTTL)
	setTokenCookie(c, common.RefreshTokenCookieName, pair.RefreshToken, s.refreshTokenTTL)
}

// clearAuthCookies expires both token cookies.
func (s *Server) clearAuthCookies(c *gin.Context) {
	expireTokenCookie(c, common.AccessTokenCookieName)
	expireTokenCookie(c, common.RefreshTokenCookieName)
}

func setTokenCookie(c *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireTokenCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
