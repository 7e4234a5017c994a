package services

import (
	"errors"
	"fmt"

	"github.com/taskboard-simple/logging"
	"github.com/taskboard-simple/models"
	"github.com/taskboard-simple/repositories"
	"gorm.io/gorm"
)

// UserService exposes user lookups and account removal
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService creates a new user service instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{userRepo: repositories.NewUserRepository(db)}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id uint) (models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return models.User{}, lookupError(err, "user")
	}
	return user, nil
}

// ListUsers returns every user ordered by username, used for assignee choices
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteAccount removes targetID. Users may only delete their own account.
// Tasks assigned to the user stay but become unassigned; projects the user
// owns are deleted with their tasks.
func (s *UserService) DeleteAccount(actorID, targetID uint) error {
	if actorID != targetID {
		return fmt.Errorf("you can only delete your own account: %w", ErrForbidden)
	}
	if err := s.userRepo.Delete(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lookupError(err, "user")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logging.Logger.WithField("user_id", targetID).Info("account deleted")
	return nil
}
