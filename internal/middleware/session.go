package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/utils"
)

// SessionCookie is the cookie holding the admin session JWT.
const SessionCookie = "admin_session"

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin"

const adminUserKey = "admin_user"

// RequireAdmin admits requests carrying a valid admin session cookie and
// stores the username for AdminUser.  Anything else is redirected to the
// login page and a stale cookie is cleared.
func RequireAdmin(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie) // session cookie set at login
			if err != nil || ck.Value == "" {  // no session: back to the login form
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			claims, err := utils.ParseSessionToken(secret, ck.Value)
			if err != nil || claims.Role != utils.RoleAdmin { // expired, forged or wrong role
				ClearSession(c) // drop the stale cookie
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			c.Set(adminUserKey, claims.Username) // expose the username to downstream handlers
			return next(c)                       // continue the chain
		}
	}
}

// AdminUser returns the username RequireAdmin stored, or "".
func AdminUser(c echo.Context) string {
	s, _ := c.Get(adminUserKey).(string)
	return s
}

// SetSession writes the session cookie.
func SetSession(c echo.Context, tok utils.SessionToken, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   secure, // off in dev so plain http works
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func ClearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
