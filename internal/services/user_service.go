package services

import (
	"errors"
	"fmt"

	"backoffice/internal/models"
	"backoffice/internal/repositories"
)

// UpdateUserInput holds the fields an admin may change. An empty Role keeps
// the current one.
type UpdateUserInput struct {
	Name  string
	Email string
	Role  models.Role
}

// UserService manages back office accounts.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.repo.GetAll()
}

func (s *UserService) GetUserByID(id string) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateUser changes name, email and optionally role.
func (s *UserService) UpdateUser(id string, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if in.Role != "" {
		if !in.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q", in.Role)
		}
		user.Role = in.Role
	}

	email := NormalizeEmail(in.Email)
	if other, err := s.repo.GetByEmail(email); err == nil && other.ID != id {
		return nil, ErrEmailTaken
	}
	user.Name = SanitizeName(in.Name)
	user.Email = email

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return s.GetUserByID(id)
}

func (s *UserService) DeleteUser(id string) error {
	return mapNotFound(s.repo.Delete(id), ErrUserNotFound)
}
