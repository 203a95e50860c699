package services

import (
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/shopspring/decimal"
)

// UpdateProductInput holds the editable product fields. An empty CategoryID
// keeps the current category.
type UpdateProductInput struct {
	Name       string
	Price      decimal.Decimal
	Stock      int
	CategoryID string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	return product, nil
}

// CreateProduct creates a new product in an existing category.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.ensureCategory(product.CategoryID); err != nil {
		return err
	}
	product.Name = SanitizeName(product.Name)
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product and returns the stored row.
func (s *ProductService) UpdateProduct(id string, in UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != "" {
		if err := s.ensureCategory(in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = in.CategoryID
	}
	product.Name = SanitizeName(in.Name)
	product.Price = in.Price
	product.Stock = in.Stock

	if err := s.repo.Update(product); err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	return s.GetProductByID(id)
}

// DeleteProduct deletes a product by its ID. Past sales keep their lines.
func (s *ProductService) DeleteProduct(id string) error {
	return mapNotFound(s.repo.Delete(id), ErrProductNotFound)
}

// SearchByName matches name as a case-insensitive substring.
func (s *ProductService) SearchByName(name string) ([]models.Product, error) {
	return s.repo.FindByName(name)
}

func (s *ProductService) FilterByCategory(categoryID string) ([]models.Product, error) {
	return s.repo.FindByCategory(categoryID)
}

// FilterByPrice returns products priced within [min, max].
func (s *ProductService) FilterByPrice(min, max decimal.Decimal) ([]models.Product, error) {
	if min.IsNegative() || min.GreaterThan(max) {
		return nil, ErrInvalidPriceRange
	}
	return s.repo.FindByPriceRange(min, max)
}

func (s *ProductService) ensureCategory(id string) error {
	_, err := s.categories.GetByID(id)
	return mapNotFound(err, ErrCategoryNotFound)
}
