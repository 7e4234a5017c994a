package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/logging"
	"github.com/taskboard-simple/models"
	"github.com/taskboard-simple/repositories"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repositories.ProjectRepository
	userRepo    *repositories.UserRepository
}

// NewProjectService creates a new project service instance
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		projectRepo: repositories.NewProjectRepository(db),
		userRepo:    repositories.NewUserRepository(db),
	}
}

// ListVisibleProjects returns every project the user can view, ordered by id
func (s *ProjectService) ListVisibleProjects(userID uint) ([]models.Project, error) {
	projects, err := s.projectRepo.FindVisibleTo(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a project owned by userID whose only member is the owner
func (s *ProjectService) CreateProject(userID uint, input dto.ProjectInput) (models.Project, error) {
	input = normalizeProjectInput(input)
	if err := validateInput(input); err != nil {
		return models.Project{}, err
	}

	owner, err := s.userRepo.FindByID(userID)
	if err != nil {
		return models.Project{}, lookupError(err, "user")
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     owner.ID,
	}
	project, err = s.projectRepo.Create(project, []models.User{owner})
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	logging.Logger.WithFields(logrus.Fields{"project_id": project.ID, "owner_id": owner.ID}).Info("project created")

	return s.reload(project.ID)
}

// GetProjectForEdit returns a project the user may edit or delete
func (s *ProjectService) GetProjectForEdit(userID, projectID uint) (models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, "project")
	}
	if !CanEditProject(userID, project) {
		return models.Project{}, fmt.Errorf("you don't have permission to edit this project: %w", ErrForbidden)
	}
	return project, nil
}

// UpdateProject changes the name and description of a project
func (s *ProjectService) UpdateProject(userID, projectID uint, input dto.ProjectInput) (models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, "project")
	}
	if !CanEditProject(userID, project) {
		return models.Project{}, fmt.Errorf("you don't have permission to update this project: %w", ErrForbidden)
	}

	input = normalizeProjectInput(input)
	if err := validateInput(input); err != nil {
		return models.Project{}, err
	}

	// Only name and description are editable; the owner never changes
	project.Name = input.Name
	project.Description = input.Description

	if err := s.projectRepo.Update(project); err != nil {
		return models.Project{}, writeError(err, "project", "update project")
	}

	logging.Logger.WithFields(logrus.Fields{"project_id": project.ID, "actor_id": userID}).Info("project updated")

	return s.reload(project.ID)
}

// DeleteProject deletes a project together with its tasks
func (s *ProjectService) DeleteProject(userID, projectID uint) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return lookupError(err, "project")
	}
	if !CanDeleteProject(userID, project) {
		return fmt.Errorf("you don't have permission to delete this project: %w", ErrForbidden)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logging.Logger.WithFields(logrus.Fields{"project_id": projectID, "actor_id": userID}).Info("project deleted")
	return nil
}

// GetProjectDetail returns the project, its tasks and everyone involved in it
func (s *ProjectService) GetProjectDetail(userID, projectID uint) (dto.ProjectDetail, error) {
	project, err := s.projectRepo.WithTasks(projectID)
	if err != nil {
		return dto.ProjectDetail{}, lookupError(err, "project")
	}
	if !CanViewProject(userID, project) {
		return dto.ProjectDetail{}, fmt.Errorf("you don't have permission to view this project: %w", ErrForbidden)
	}

	return dto.ProjectDetail{
		Project: project,
		Tasks:   project.Tasks,
		Members: involvedUsers(project),
	}, nil
}

// AddMember adds the named user to the project's members
func (s *ProjectService) AddMember(userID, projectID uint, input dto.MemberInput) (models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, "project")
	}
	if !CanManageMembers(userID, project) {
		return models.Project{}, fmt.Errorf("you don't have permission to manage members of this project: %w", ErrForbidden)
	}

	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(input); err != nil {
		return models.Project{}, err
	}

	member, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, NewValidationError("username", "No user with this username.")
		}
		return models.Project{}, fmt.Errorf("failed to load user: %w", err)
	}

	if !project.HasMember(member.ID) {
		if err := s.projectRepo.AddMember(project.ID, member); err != nil {
			return models.Project{}, fmt.Errorf("failed to add member: %w", err)
		}
		logging.Logger.WithFields(logrus.Fields{"project_id": project.ID, "member_id": member.ID}).Info("member added")
	}

	return s.reload(project.ID)
}

// RemoveMember removes a user from the project's members. Removing the owner
// is allowed; ownership itself is unaffected.
func (s *ProjectService) RemoveMember(userID, projectID, memberID uint) (models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, "project")
	}
	if !CanManageMembers(userID, project) {
		return models.Project{}, fmt.Errorf("you don't have permission to manage members of this project: %w", ErrForbidden)
	}

	if project.HasMember(memberID) {
		if err := s.projectRepo.RemoveMember(project.ID, memberID); err != nil {
			return models.Project{}, fmt.Errorf("failed to remove member: %w", err)
		}
		logging.Logger.WithFields(logrus.Fields{"project_id": project.ID, "member_id": memberID}).Info("member removed")
	}

	return s.reload(project.ID)
}

func (s *ProjectService) reload(projectID uint) (models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, "project")
	}
	return project, nil
}

func normalizeProjectInput(input dto.ProjectInput) dto.ProjectInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	return input
}

// involvedUsers returns the members in id order followed by every task
// assignee who is not already listed, each user once.
func involvedUsers(project models.Project) []models.User {
	seen := make(map[uint]bool, len(project.Members))
	users := make([]models.User, 0, len(project.Members))
	for _, m := range project.Members {
		if !seen[m.ID] {
			seen[m.ID] = true
			users = append(users, m)
		}
	}

	var extra []models.User
	for _, task := range project.Tasks {
		if task.AssignedTo == nil || seen[task.AssignedTo.ID] {
			continue
		}
		seen[task.AssignedTo.ID] = true
		extra = append(extra, *task.AssignedTo)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	return append(users, extra...)
}
