package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/models"
)

const (
	// SessionCookie holds the signed session token
	SessionCookie = "access_token"
	// LoginPath is where unauthenticated visitors are sent
	LoginPath = "/accounts/login/"

	userIDKey   = "userId"
	usernameKey = "username"
)

// TokenValidator checks a session token and returns its claims
type TokenValidator interface {
	ValidateToken(token string) (*dto.TokenClaims, error)
}

// UserLookup resolves the account a session token belongs to
type UserLookup interface {
	GetUser(id uint) (models.User, error)
}

// AuthMiddleware requires a valid session cookie for an existing account.
// Visitors without one are redirected to the login page with the requested
// path in ?next=.
func AuthMiddleware(validator TokenValidator, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Authenticate(c, validator, users); !ok {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Authenticate reads the session cookie and, if it is valid and the account
// still exists, stores the identity on the context. It never aborts the request.
func Authenticate(c *gin.Context, validator TokenValidator, users UserLookup) (uint, bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return 0, false
	}
	claims, err := validator.ValidateToken(token)
	if err != nil {
		return 0, false
	}
	user, err := users.GetUser(claims.UserID)
	if err != nil {
		return 0, false
	}
	c.Set(userIDKey, user.ID)
	c.Set(usernameKey, user.Username)
	return user.ID, true
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

// CurrentUsername returns the authenticated username set by AuthMiddleware
func CurrentUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
