package services

import (
	"errors"
	"strings"

	"backoffice/internal/models"
	"backoffice/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(category *models.Category) error {
	category.Name = SanitizeName(category.Name)
	category.Description = strings.TrimSpace(category.Description)
	return s.repo.Create(category)
}

// UpdateCategory replaces name and description and returns the stored row.
func (s *CategoryService) UpdateCategory(id string, name, description string) (*models.Category, error) {
	category := &models.Category{
		ID:          id,
		Name:        SanitizeName(name),
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.Update(category); err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return s.GetCategoryByID(id)
}

// DeleteCategory removes the category. Its products are left untouched.
func (s *CategoryService) DeleteCategory(id string) error {
	return mapNotFound(s.repo.Delete(id), ErrCategoryNotFound)
}

// mapNotFound replaces a repository miss with the service sentinel.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return sentinel
	}
	return err
}
