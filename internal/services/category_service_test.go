package services_test

import (
	"testing"

	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateAndGet(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	mockRepo.On("Create", mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Office" && c.Description == "Paper and pens"
	})).Return(nil).Once()
	require.NoError(t, service.CreateCategory(&models.Category{Name: " Office ", Description: " Paper and pens "}))

	mockRepo.On("GetByID", "missing").Return(nil, notFound("category")).Once()
	_, err := service.GetCategoryByID("missing")
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_UpdateAndDelete(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	mockRepo.On("Update", mock.AnythingOfType("*models.Category")).Return(nil).Once()
	mockRepo.On("GetByID", "c1").Return(&models.Category{ID: "c1", Name: "Tools"}, nil).Once()
	got, err := service.UpdateCategory("c1", "Tools", "")
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.Name)

	mockRepo.On("Update", mock.AnythingOfType("*models.Category")).Return(notFound("category")).Once()
	_, err = service.UpdateCategory("c2", "Tools", "")
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)

	mockRepo.On("Delete", "c3").Return(notFound("category")).Once()
	assert.ErrorIs(t, service.DeleteCategory("c3"), services.ErrCategoryNotFound)
	mockRepo.AssertExpectations(t)
}
