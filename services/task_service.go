package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/logging"
	"github.com/taskboard-simple/models"
	"github.com/taskboard-simple/repositories"
	"gorm.io/gorm"
)

// TaskService handles business logic for tasks
type TaskService struct {
	taskRepo    *repositories.TaskRepository
	projectRepo *repositories.ProjectRepository
	userRepo    *repositories.UserRepository
}

// NewTaskService creates a new task service instance
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{
		taskRepo:    repositories.NewTaskRepository(db),
		projectRepo: repositories.NewProjectRepository(db),
		userRepo:    repositories.NewUserRepository(db),
	}
}

// GetProjectForNewTask returns the project if userID may add tasks to it
func (s *TaskService) GetProjectForNewTask(userID, projectID uint) (models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, "project")
	}
	if !CanEditProject(userID, project) {
		return models.Project{}, fmt.Errorf("you don't have permission to add tasks to this project: %w", ErrForbidden)
	}
	return project, nil
}

// CreateTask adds a task to a project owned by userID. The assignee, if any,
// must exist but need not be a project member.
func (s *TaskService) CreateTask(userID, projectID uint, input dto.TaskInput) (models.Task, error) {
	project, err := s.GetProjectForNewTask(userID, projectID)
	if err != nil {
		return models.Task{}, err
	}

	input = normalizeTaskInput(input)
	if err := s.validateTaskInput(input); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ProjectID:    project.ID,
		Name:         input.Name,
		Description:  input.Description,
		AssignedToID: input.AssignedToID,
		Status:       input.Status,
	}
	task, err = s.taskRepo.Create(task)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	logging.Logger.WithFields(logrus.Fields{"task_id": task.ID, "project_id": project.ID}).Info("task created")

	return s.reload(task.ID)
}

// GetTaskForEdit returns a task whose project is owned by userID
func (s *TaskService) GetTaskForEdit(userID, taskID uint) (models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return models.Task{}, lookupError(err, "task")
	}
	if !CanEditTask(userID, task) {
		return models.Task{}, fmt.Errorf("you don't have permission to edit this task: %w", ErrForbidden)
	}
	return task, nil
}

// UpdateTask replaces name, description, assignee and status of a task
func (s *TaskService) UpdateTask(userID, taskID uint, input dto.TaskInput) (models.Task, error) {
	task, err := s.GetTaskForEdit(userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	input = normalizeTaskInput(input)
	if err := s.validateTaskInput(input); err != nil {
		return models.Task{}, err
	}

	task.Name = input.Name
	task.Description = input.Description
	task.AssignedToID = input.AssignedToID
	task.AssignedTo = nil
	task.Status = input.Status

	if err := s.taskRepo.Update(task); err != nil {
		return models.Task{}, writeError(err, "task", "update task")
	}

	logging.Logger.WithFields(logrus.Fields{"task_id": task.ID, "actor_id": userID}).Info("task updated")

	return s.reload(task.ID)
}

// DeleteTask removes a task and returns it as it was before deletion
func (s *TaskService) DeleteTask(userID, taskID uint) (models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return models.Task{}, lookupError(err, "task")
	}
	if !CanDeleteTask(userID, task) {
		return models.Task{}, fmt.Errorf("you don't have permission to delete this task: %w", ErrForbidden)
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return models.Task{}, fmt.Errorf("failed to delete task: %w", err)
	}

	logging.Logger.WithFields(logrus.Fields{"task_id": task.ID, "actor_id": userID}).Info("task deleted")
	return task, nil
}

// GetTaskDetail returns a task to its assignee or its project owner
func (s *TaskService) GetTaskDetail(userID, taskID uint) (models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return models.Task{}, lookupError(err, "task")
	}
	if !CanViewTask(userID, task) {
		return models.Task{}, fmt.Errorf("you don't have permission to view this task: %w", ErrForbidden)
	}
	return task, nil
}

// UpdateStatusFromDetail is the status form on the task page. Anyone who can
// view the task, owner included, may use it.
func (s *TaskService) UpdateStatusFromDetail(userID, taskID uint, status models.TaskStatus) (models.Task, error) {
	task, err := s.GetTaskDetail(userID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	return s.setStatus(userID, task, status)
}

// GetTaskForStatusUpdate returns a task to its assignee
func (s *TaskService) GetTaskForStatusUpdate(userID, taskID uint) (models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return models.Task{}, lookupError(err, "task")
	}
	if !CanUpdateTaskStatus(userID, task) {
		return models.Task{}, fmt.Errorf("only the assignee can update the status of this task: %w", ErrForbidden)
	}
	return task, nil
}

// UpdateTaskStatus lets the assignee move a task to any status
func (s *TaskService) UpdateTaskStatus(userID, taskID uint, status models.TaskStatus) (models.Task, error) {
	task, err := s.GetTaskForStatusUpdate(userID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	return s.setStatus(userID, task, status)
}

func (s *TaskService) setStatus(userID uint, task models.Task, status models.TaskStatus) (models.Task, error) {
	input := dto.TaskStatusInput{Status: models.TaskStatus(strings.TrimSpace(string(status)))}
	if err := validateInput(input); err != nil {
		return models.Task{}, err
	}

	if err := s.taskRepo.UpdateStatus(task.ID, input.Status); err != nil {
		return models.Task{}, writeError(err, "task", "update task status")
	}

	logging.Logger.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"actor_id": userID,
		"from":     task.Status,
		"to":       input.Status,
	}).Info("task status changed")

	return s.reload(task.ID)
}

func (s *TaskService) validateTaskInput(input dto.TaskInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if input.AssignedToID == nil {
		return nil
	}
	if _, err := s.userRepo.FindByID(*input.AssignedToID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("assigned_to", "Select a valid choice. That choice is not one of the available choices.")
		}
		return fmt.Errorf("failed to load assignee: %w", err)
	}
	return nil
}

func (s *TaskService) reload(taskID uint) (models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return models.Task{}, lookupError(err, "task")
	}
	return task, nil
}

func normalizeTaskInput(input dto.TaskInput) dto.TaskInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Status = models.TaskStatus(strings.TrimSpace(string(input.Status)))
	return input
}
