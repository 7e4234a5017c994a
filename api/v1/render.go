package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/logging"
	"github.com/taskboard-simple/middleware"
	"github.com/taskboard-simple/services"
)

// errBadRequest marks a request body that could not be read as a form
var errBadRequest = errors.New("malformed request")

// bindForm binds the submitted form into obj
func bindForm(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// page builds the template data every page needs
func page(c *gin.Context, title string) gin.H {
	userID, _ := middleware.CurrentUserID(c)
	return gin.H{
		"Title":    title,
		"Username": middleware.CurrentUsername(c),
		"UserID":   userID,
		"Errors":   map[string]string{},
	}
}

// merge copies extra into data and returns data
func merge(data gin.H, extra gin.H) gin.H {
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// renderError writes the status page for NotFound, Forbidden, bad input and anything else
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		c.Error(err).SetType(gin.ErrorTypeBind)
		c.HTML(http.StatusBadRequest, "error.html", merge(page(c, "Bad request"), gin.H{
			"Status":  "Bad request",
			"Message": "The submitted form could not be read.",
		}))
	case errors.Is(err, services.ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", merge(page(c, "Not found"), gin.H{
			"Status":  "Not found",
			"Message": "The page you asked for does not exist.",
		}))
	case errors.Is(err, services.ErrForbidden):
		c.HTML(http.StatusForbidden, "error.html", merge(page(c, "Forbidden"), gin.H{
			"Status":  "Forbidden",
			"Message": "You don't have permission to do that.",
		}))
	default:
		c.Error(err)
		logging.Logger.WithField("path", c.Request.URL.Path).WithError(err).Error("request failed")
		c.HTML(http.StatusInternalServerError, "error.html", merge(page(c, "Error"), gin.H{
			"Status":  "Something went wrong",
			"Message": "Please try again later.",
		}))
	}
}

// validationErrors extracts field errors, reporting whether err was a validation failure
func validationErrors(err error) (map[string]string, bool) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// pathID parses a positive numeric path parameter, rendering 404 otherwise
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		renderError(c, services.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user id; routes using it sit behind AuthMiddleware
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return 0, false
	}
	return userID, true
}

func projectURL(id uint) string {
	return "/projects/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func taskURL(id uint) string {
	return "/tasks/" + strconv.FormatUint(uint64(id), 10) + "/"
}
