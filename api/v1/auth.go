package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/middleware"
	"github.com/taskboard-simple/services"
)

// AuthController serves login, logout, registration and account removal
type AuthController struct {
	authService  *services.AuthService
	userService  *services.UserService
	tokenTTL     time.Duration
	cookieSecure bool
}

// NewAuthController creates a new auth controller
func NewAuthController(auth *services.AuthService, users *services.UserService, tokenTTL time.Duration, cookieSecure bool) *AuthController {
	return &AuthController{
		authService:  auth,
		userService:  users,
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers the public account routes
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	accounts := router.Group("/accounts")
	{
		accounts.GET("/login/", ac.LoginForm)
		accounts.POST("/login/", ac.Login)
		accounts.GET("/logout/", ac.Logout)
		accounts.POST("/logout/", ac.Logout)
		accounts.GET("/register/", ac.RegisterForm)
		accounts.POST("/register/", ac.Register)
	}
}

// RegisterProtectedRoutes registers account routes that need a session
func (ac *AuthController) RegisterProtectedRoutes(router gin.IRouter) {
	router.GET("/accounts/delete/", ac.DeleteAccountForm)
	router.POST("/accounts/delete/", ac.DeleteAccount)
}

// Home sends visitors to their projects or to the login page
func (ac *AuthController) Home(c *gin.Context) {
	if _, ok := middleware.Authenticate(c, ac.authService, ac.userService); ok {
		c.Redirect(http.StatusFound, "/projects/")
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// LoginForm renders the login page
func (ac *AuthController) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", merge(page(c, "Log in"), gin.H{
		"Form": dto.LoginRequest{},
		"Next": c.Query("next"),
	}))
}

// Login checks credentials and sets the session cookie
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindForm(c, &req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", merge(page(c, "Log in"), gin.H{
			"Form":  req,
			"Next":  req.Next,
			"Error": "Invalid form submission.",
		}))
		return
	}

	authResponse, err := ac.authService.Login(req)
	if err != nil {
		data := merge(page(c, "Log in"), gin.H{"Form": dto.LoginRequest{Username: req.Username}, "Next": req.Next})
		if fields, ok := validationErrors(err); ok {
			data["Errors"] = fields
			c.HTML(http.StatusBadRequest, "login.html", data)
			return
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			data["Error"] = "Please enter a correct username and password."
			c.HTML(http.StatusUnauthorized, "login.html", data)
			return
		}
		renderError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookie,
		authResponse.Token,
		int(ac.tokenTTL.Seconds()),
		"/",
		"",
		ac.cookieSecure,
		true, // httpOnly
	)

	c.Redirect(http.StatusFound, safeNext(req.Next))
}

// Logout clears the session cookie
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ac.cookieSecure, true)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// RegisterForm renders the sign-up page
func (ac *AuthController) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", merge(page(c, "Register"), gin.H{
		"Form": dto.RegisterRequest{},
	}))
}

// Register creates an account and sends the user to the login page
func (ac *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindForm(c, &req); err != nil {
		renderError(c, err)
		return
	}

	if _, err := ac.authService.Register(req); err != nil {
		if fields, ok := validationErrors(err); ok {
			req.Password, req.PasswordConfirm = "", ""
			c.HTML(http.StatusBadRequest, "register.html", merge(page(c, "Register"), gin.H{
				"Form":   req,
				"Errors": fields,
			}))
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// DeleteAccountForm renders the account removal confirmation
func (ac *AuthController) DeleteAccountForm(c *gin.Context) {
	c.HTML(http.StatusOK, "account_delete.html", page(c, "Delete account"))
}

// DeleteAccount removes the current user and ends the session
func (ac *AuthController) DeleteAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.userService.DeleteAccount(userID, userID); err != nil {
		renderError(c, err)
		return
	}
	ac.Logout(c)
}

// safeNext only follows local, absolute paths
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/projects/"
	}
	return next
}
