package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/services"
)

// ProjectController handles project pages
type ProjectController struct {
	projectService *services.ProjectService
}

// NewProjectController creates a new project controller
func NewProjectController(projects *services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projects}
}

// RegisterRoutes registers project routes
func (pc *ProjectController) RegisterRoutes(router gin.IRouter) {
	projects := router.Group("/projects")
	{
		projects.GET("/", pc.ListProjects)
		projects.GET("/create/", pc.CreateProjectForm)
		projects.POST("/create/", pc.CreateProject)
		projects.GET("/:id/", pc.GetProject)
		projects.GET("/:id/update/", pc.UpdateProjectForm)
		projects.POST("/:id/update/", pc.UpdateProject)
		projects.GET("/:id/delete/", pc.DeleteProjectForm)
		projects.POST("/:id/delete/", pc.DeleteProject)
		projects.POST("/:id/members/add/", pc.AddMember)
		projects.POST("/:id/members/:userId/remove/", pc.RemoveMember)
	}
}

// ListProjects shows every project the user can see
func (pc *ProjectController) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := pc.projectService.ListVisibleProjects(userID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "project_list.html", merge(page(c, "Projects"), gin.H{
		"Projects": projects,
	}))
}

// CreateProjectForm renders an empty project form
func (pc *ProjectController) CreateProjectForm(c *gin.Context) {
	c.HTML(http.StatusOK, "project_form.html", merge(page(c, "New project"), gin.H{
		"Action": "/projects/create/",
		"Form":   dto.ProjectInput{},
	}))
}

// CreateProject creates a project owned by the current user
func (pc *ProjectController) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input dto.ProjectInput
	if err := bindForm(c, &input); err != nil {
		renderError(c, err)
		return
	}

	if _, err := pc.projectService.CreateProject(userID, input); err != nil {
		if fields, ok := validationErrors(err); ok {
			c.HTML(http.StatusBadRequest, "project_form.html", merge(page(c, "New project"), gin.H{
				"Action": "/projects/create/",
				"Form":   input,
				"Errors": fields,
			}))
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/projects/")
}

// GetProject shows a project with its tasks and people
func (pc *ProjectController) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := pc.projectService.GetProjectDetail(userID, projectID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "project_detail.html", merge(page(c, detail.Project.Name), gin.H{
		"Detail":     detail,
		"MemberForm": dto.MemberInput{},
	}))
}

// UpdateProjectForm renders the project form prefilled
func (pc *ProjectController) UpdateProjectForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := pc.projectService.GetProjectForEdit(userID, projectID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "project_form.html", merge(page(c, "Edit project"), gin.H{
		"Action": c.Request.URL.Path,
		"Form":   dto.NewProjectInput(project),
	}))
}

// UpdateProject saves name and description
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input dto.ProjectInput
	if err := bindForm(c, &input); err != nil {
		renderError(c, err)
		return
	}

	if _, err := pc.projectService.UpdateProject(userID, projectID, input); err != nil {
		if fields, ok := validationErrors(err); ok {
			c.HTML(http.StatusBadRequest, "project_form.html", merge(page(c, "Edit project"), gin.H{
				"Action": c.Request.URL.Path,
				"Form":   input,
				"Errors": fields,
			}))
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/projects/")
}

// DeleteProjectForm asks for confirmation
func (pc *ProjectController) DeleteProjectForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := pc.projectService.GetProjectForEdit(userID, projectID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "project_delete.html", merge(page(c, "Delete project"), gin.H{
		"Project": project,
	}))
}

// DeleteProject deletes the project and its tasks
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := pc.projectService.DeleteProject(userID, projectID); err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/projects/")
}

// AddMember adds a user by username
func (pc *ProjectController) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input dto.MemberInput
	if err := bindForm(c, &input); err != nil {
		renderError(c, err)
		return
	}

	if _, err := pc.projectService.AddMember(userID, projectID, input); err != nil {
		if fields, ok := validationErrors(err); ok {
			detail, detailErr := pc.projectService.GetProjectDetail(userID, projectID)
			if detailErr != nil {
				renderError(c, detailErr)
				return
			}
			c.HTML(http.StatusBadRequest, "project_detail.html", merge(page(c, detail.Project.Name), gin.H{
				"Detail":     detail,
				"MemberForm": input,
				"Errors":     fields,
			}))
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, projectURL(projectID))
}

// RemoveMember drops a user from the project's members
func (pc *ProjectController) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if _, err := pc.projectService.RemoveMember(userID, projectID, memberID); err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, projectURL(projectID))
}
