package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/models"
	"github.com/taskboard-simple/services"
)

// TaskController handles task pages
type TaskController struct {
	taskService *services.TaskService
	userService *services.UserService
}

// NewTaskController creates a new task controller
func NewTaskController(tasks *services.TaskService, users *services.UserService) *TaskController {
	return &TaskController{
		taskService: tasks,
		userService: users,
	}
}

// RegisterRoutes registers task routes
func (tc *TaskController) RegisterRoutes(router gin.IRouter) {
	router.GET("/projects/:id/tasks/create/", tc.CreateTaskForm)
	router.POST("/projects/:id/tasks/create/", tc.CreateTask)

	tasks := router.Group("/tasks")
	{
		tasks.GET("/:id/", tc.GetTask)
		tasks.POST("/:id/", tc.UpdateStatusFromDetail)
		tasks.GET("/:id/update/", tc.UpdateTaskForm)
		tasks.POST("/:id/update/", tc.UpdateTask)
		tasks.GET("/:id/delete/", tc.DeleteTaskForm)
		tasks.POST("/:id/delete/", tc.DeleteTask)
		tasks.GET("/:id/update-status/", tc.UpdateStatusForm)
		tasks.POST("/:id/update-status/", tc.UpdateTaskStatus)
	}
}

// renderTaskForm renders the create or edit form with the assignee choices
func (tc *TaskController) renderTaskForm(c *gin.Context, code int, title string, project models.Project, form dto.TaskForm, errs map[string]string) {
	users, err := tc.userService.ListUsers()
	if err != nil {
		renderError(c, err)
		return
	}
	data := merge(page(c, title), gin.H{
		"Action":  c.Request.URL.Path,
		"Project": project,
		"Users":   users,
		"Form":    form,
	})
	if errs != nil {
		data["Errors"] = errs
	}
	c.HTML(code, "task_form.html", data)
}

// bindTask reads the task form; an unparsable assignee is reported as a field error
func bindTask(c *gin.Context) (dto.TaskForm, dto.TaskInput, error) {
	var form dto.TaskForm
	if err := bindForm(c, &form); err != nil {
		return form, dto.TaskInput{}, err
	}
	input, ok := form.ToInput()
	if !ok {
		return form, input, services.NewValidationError("assigned_to", "Select a valid choice.")
	}
	return form, input, nil
}

// CreateTaskForm renders an empty task form for a project
func (tc *TaskController) CreateTaskForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := tc.taskService.GetProjectForNewTask(userID, projectID)
	if err != nil {
		renderError(c, err)
		return
	}

	form := dto.TaskForm{Status: string(models.TaskStatusNotStarted)}
	tc.renderTaskForm(c, http.StatusOK, "New task", project, form, nil)
}

// CreateTask adds a task to the project
func (tc *TaskController) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, input, err := bindTask(c)
	if err == nil {
		_, err = tc.taskService.CreateTask(userID, projectID, input)
	}
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			project, projectErr := tc.taskService.GetProjectForNewTask(userID, projectID)
			if projectErr != nil {
				renderError(c, projectErr)
				return
			}
			tc.renderTaskForm(c, http.StatusBadRequest, "New task", project, form, fields)
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, projectURL(projectID))
}

// GetTask shows a task to its assignee or project owner
func (tc *TaskController) GetTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := tc.taskService.GetTaskDetail(userID, taskID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_detail.html", merge(page(c, task.Name), gin.H{
		"Task": task,
		"Form": dto.TaskStatusInput{Status: task.Status},
	}))
}

// UpdateStatusFromDetail handles the status form on the task page
func (tc *TaskController) UpdateStatusFromDetail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input dto.TaskStatusInput
	if err := bindForm(c, &input); err != nil {
		renderError(c, err)
		return
	}

	if _, err := tc.taskService.UpdateStatusFromDetail(userID, taskID, input.Status); err != nil {
		if fields, ok := validationErrors(err); ok {
			task, taskErr := tc.taskService.GetTaskDetail(userID, taskID)
			if taskErr != nil {
				renderError(c, taskErr)
				return
			}
			c.HTML(http.StatusBadRequest, "task_detail.html", merge(page(c, task.Name), gin.H{
				"Task":   task,
				"Form":   input,
				"Errors": fields,
			}))
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, taskURL(taskID))
}

// UpdateTaskForm renders the task form prefilled
func (tc *TaskController) UpdateTaskForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := tc.taskService.GetTaskForEdit(userID, taskID)
	if err != nil {
		renderError(c, err)
		return
	}

	tc.renderTaskForm(c, http.StatusOK, "Edit task", task.Project, dto.NewTaskForm(task), nil)
}

// UpdateTask saves every task field
func (tc *TaskController) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, input, err := bindTask(c)
	var task models.Task
	if err == nil {
		task, err = tc.taskService.UpdateTask(userID, taskID, input)
	}
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			existing, taskErr := tc.taskService.GetTaskForEdit(userID, taskID)
			if taskErr != nil {
				renderError(c, taskErr)
				return
			}
			tc.renderTaskForm(c, http.StatusBadRequest, "Edit task", existing.Project, form, fields)
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, projectURL(task.ProjectID))
}

// DeleteTaskForm asks for confirmation
func (tc *TaskController) DeleteTaskForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := tc.taskService.GetTaskForEdit(userID, taskID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_delete.html", merge(page(c, "Delete task"), gin.H{
		"Task": task,
	}))
}

// DeleteTask removes the task
func (tc *TaskController) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := tc.taskService.DeleteTask(userID, taskID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, projectURL(task.ProjectID))
}

// UpdateStatusForm renders the assignee's status form
func (tc *TaskController) UpdateStatusForm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := tc.taskService.GetTaskForStatusUpdate(userID, taskID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_status.html", merge(page(c, "Update status"), gin.H{
		"Task": task,
		"Form": dto.TaskStatusInput{Status: task.Status},
	}))
}

// UpdateTaskStatus lets the assignee change the status
func (tc *TaskController) UpdateTaskStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input dto.TaskStatusInput
	if err := bindForm(c, &input); err != nil {
		renderError(c, err)
		return
	}

	if _, err := tc.taskService.UpdateTaskStatus(userID, taskID, input.Status); err != nil {
		if fields, ok := validationErrors(err); ok {
			task, taskErr := tc.taskService.GetTaskForStatusUpdate(userID, taskID)
			if taskErr != nil {
				renderError(c, taskErr)
				return
			}
			c.HTML(http.StatusBadRequest, "task_status.html", merge(page(c, "Update status"), gin.H{
				"Task":   task,
				"Form":   input,
				"Errors": fields,
			}))
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, taskURL(taskID))
}
