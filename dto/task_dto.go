package dto

import (
	"strconv"
	"strings"

	"github.com/taskboard-simple/models"
)

// TaskInput is the full set of editable task fields
type TaskInput struct {
	Name         string            `form:"name" validate:"required,max=100"`
	Description  string            `form:"description" validate:"required"`
	AssignedToID *uint             `form:"-"`
	Status       models.TaskStatus `form:"status" validate:"required,taskstatus"`
}

// TaskForm is the raw form submission; assigned_to arrives as text and may be empty
type TaskForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	AssignedTo  string `form:"assigned_to"`
	Status      string `form:"status"`
}

// TaskStatusInput is the status-only form
type TaskStatusInput struct {
	Status models.TaskStatus `form:"status" validate:"required,taskstatus"`
}

// ToInput converts the form into a TaskInput. ok is false when assigned_to
// is present but not a user id.
func (f TaskForm) ToInput() (input TaskInput, ok bool) {
	input = TaskInput{
		Name:        f.Name,
		Description: f.Description,
		Status:      models.TaskStatus(f.Status),
	}
	raw := strings.TrimSpace(f.AssignedTo)
	if raw == "" {
		return input, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return input, false
	}
	assigned := uint(id)
	input.AssignedToID = &assigned
	return input, true
}

// NewTaskForm prefills a form from an existing task
func NewTaskForm(task models.Task) TaskForm {
	form := TaskForm{
		Name:        task.Name,
		Description: task.Description,
		Status:      string(task.Status),
	}
	if task.AssignedToID != nil {
		form.AssignedTo = strconv.FormatUint(uint64(*task.AssignedToID), 10)
	}
	return form
}
