package services

import (
	"errors"
	"testing"
	"time"

	"github.com/taskboard-simple/database/databasetest"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/models"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	projects *ProjectService
	tasks    *TaskService
	users    *UserService
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)
	return &fixture{
		db:       db,
		projects: NewProjectService(db),
		tasks:    NewTaskService(db),
		users:    NewUserService(db),
		auth:     NewAuthService(db, "test-secret", time.Hour).WithHashCost(4),
	}
}

func (f *fixture) user(t *testing.T, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Password: "unused"}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *fixture) project(t *testing.T, owner models.User, name string) models.Project {
	t.Helper()
	p, err := f.projects.CreateProject(owner.ID, dto.ProjectInput{Name: name, Description: name + " description"})
	if err != nil {
		t.Fatalf("CreateProject %s: %v", name, err)
	}
	return p
}

func (f *fixture) task(t *testing.T, owner models.User, project models.Project, name string, assignee *models.User) models.Task {
	t.Helper()
	input := dto.TaskInput{Name: name, Description: name + " description", Status: models.TaskStatusNotStarted}
	if assignee != nil {
		id := assignee.ID
		input.AssignedToID = &id
	}
	task, err := f.tasks.CreateTask(owner.ID, project.ID, input)
	if err != nil {
		t.Fatalf("CreateTask %s: %v", name, err)
	}
	return task
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Fatalf("expected error on %q, got %v", field, verr.Fields)
	}
}
