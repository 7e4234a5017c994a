package dto

import (
	"github.com/taskboard-simple/models"
)

// ProjectInput is the editable part of a project
type ProjectInput struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
}

// MemberInput names a user to add to a project
type MemberInput struct {
	Username string `form:"username" validate:"required"`
}

// ProjectDetail is a project with its tasks and everyone involved in it:
// declared members followed by task assignees who are not members.
type ProjectDetail struct {
	Project models.Project
	Tasks   []models.Task
	Members []models.User
}

// NewProjectInput prefills a form from an existing project
func NewProjectInput(project models.Project) ProjectInput {
	return ProjectInput{Name: project.Name, Description: project.Description}
}
