package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryStore holds every collection in process memory. It backs the
// "memory" database driver and the concurrency tests.
type MemoryStore struct {
	mu         sync.RWMutex
	products   map[string]models.Product
	categories map[string]models.Category
	users      map[string]models.User
	sales      map[string]models.Sale
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
		users:      make(map[string]models.User),
		sales:      make(map[string]models.Sale),
	}
}

func (s *MemoryStore) Products() *InMemoryProductRepository {
	return &InMemoryProductRepository{store: s}
}

func (s *MemoryStore) Categories() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{store: s}
}

func (s *MemoryStore) Users() *InMemoryUserRepository {
	return &InMemoryUserRepository{store: s}
}

func (s *MemoryStore) Sales() *InMemorySaleRepository {
	return &InMemorySaleRepository{store: s}
}

func (s *MemoryStore) TxRunner() *InMemoryTxRunner {
	return &InMemoryTxRunner{store: s}
}

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	store *MemoryStore
}

// GetAll returns all products in creation order.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }, byCreated), nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *InMemoryProductRepository) Create(product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if product.ID == "" {
		product.ID = models.NewID()
	}
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now
	r.store.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *InMemoryProductRepository) Update(product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	existing.Name = product.Name
	existing.CategoryID = product.CategoryID
	existing.Price = product.Price
	existing.Stock = product.Stock
	existing.UpdatedAt = time.Now().UTC()
	r.store.products[product.ID] = existing
	return nil
}

// Delete removes a product by its ID.
func (r *InMemoryProductRepository) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.store.products, id)
	return nil
}

func (r *InMemoryProductRepository) FindByName(name string) ([]models.Product, error) {
	needle := strings.ToLower(name)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}, byName), nil
}

func (r *InMemoryProductRepository) FindByCategory(categoryID string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.CategoryID == categoryID }, byName), nil
}

func (r *InMemoryProductRepository) FindByPriceRange(min, max decimal.Decimal) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max)
	}, byPrice), nil
}

// DecrementStock checks and subtracts under the store's write lock.
func (r *InMemoryProductRepository) DecrementStock(id string, amount int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok || product.Stock < amount {
		return false, nil
	}
	product.Stock -= amount
	r.store.products[id] = product
	return true, nil
}

func (r *InMemoryProductRepository) incrementStock(id string, amount int) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if product, ok := r.store.products[id]; ok {
		product.Stock += amount
		r.store.products[id] = product
	}
}

func (r *InMemoryProductRepository) filter(keep func(models.Product) bool, less func(a, b models.Product) bool) []models.Product {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := make([]models.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		if keep(p) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return less(products[i], products[j]) })
	return products
}

func byCreated(a, b models.Product) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func byName(a, b models.Product) bool { return a.Name < b.Name }

func byPrice(a, b models.Product) bool { return a.Price.LessThan(b.Price) }

// InMemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type InMemoryCategoryRepository struct {
	store *MemoryStore
}

func (r *InMemoryCategoryRepository) GetAll() ([]models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *InMemoryCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
	}
	return &category, nil
}

func (r *InMemoryCategoryRepository) Create(category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if category.ID == "" {
		category.ID = models.NewID()
	}
	now := time.Now().UTC()
	category.CreatedAt, category.UpdatedAt = now, now
	r.store.categories[category.ID] = *category
	return nil
}

func (r *InMemoryCategoryRepository) Update(category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.categories[category.ID]
	if !ok {
		return fmt.Errorf("category with ID %s: %w", category.ID, ErrNotFound)
	}
	existing.Name = category.Name
	existing.Description = category.Description
	existing.UpdatedAt = time.Now().UTC()
	r.store.categories[category.ID] = existing
	return nil
}

func (r *InMemoryCategoryRepository) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[id]; !ok {
		return fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
	}
	delete(r.store.categories, id)
	return nil
}

// InMemoryUserRepository is an in-memory implementation of UserRepository.
type InMemoryUserRepository struct {
	store *MemoryStore
}

func (r *InMemoryUserRepository) Create(user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = models.NewID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.store.users[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

func (r *InMemoryUserRepository) GetByID(id string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

func (r *InMemoryUserRepository) GetAll() ([]models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]models.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *InMemoryUserRepository) Update(user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	for _, u := range r.store.users {
		if u.ID != user.ID && u.Email == user.Email {
			return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicate)
		}
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Role = user.Role
	existing.Password = user.Password
	existing.UpdatedAt = time.Now().UTC()
	r.store.users[user.ID] = existing
	return nil
}

func (r *InMemoryUserRepository) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	delete(r.store.users, id)
	return nil
}

// InMemorySaleRepository is an in-memory implementation of SaleRepository.
type InMemorySaleRepository struct {
	store *MemoryStore
}

func (r *InMemorySaleRepository) Create(sale *models.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if sale.ID == "" {
		sale.ID = models.NewID()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now().UTC()
	}
	stored := *sale
	stored.User = nil
	stored.Details = make([]models.SaleDetail, len(sale.Details))
	for i, d := range sale.Details {
		d.ID = uint(i + 1)
		d.SaleID = sale.ID
		d.Product = nil
		stored.Details[i] = d
	}
	r.store.sales[sale.ID] = stored
	return nil
}

func (r *InMemorySaleRepository) GetByID(id string) (*models.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sale, ok := r.store.sales[id]
	if !ok {
		return nil, fmt.Errorf("sale with ID %s: %w", id, ErrNotFound)
	}
	return r.hydrate(sale), nil
}

func (r *InMemorySaleRepository) Find(filter SaleFilter) ([]models.Sale, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []models.Sale
	for _, s := range r.store.sales {
		if filter.From != nil && s.Date.Before(*filter.From) {
			continue
		}
		if filter.Before != nil && !s.Date.Before(*filter.Before) {
			continue
		}
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	sales := make([]models.Sale, 0, len(matched))
	for _, s := range matched {
		sales = append(sales, *r.hydrate(s))
	}
	return sales, total, nil
}

func (r *InMemorySaleRepository) delete(id string) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sales, id)
}

// hydrate copies a stored sale and attaches its seller and products. The
// caller must hold the read lock.
func (r *InMemorySaleRepository) hydrate(s models.Sale) *models.Sale {
	out := s
	if u, ok := r.store.users[s.UserID]; ok {
		out.User = &u
	}
	out.Details = make([]models.SaleDetail, len(s.Details))
	for i, d := range s.Details {
		if p, ok := r.store.products[d.ProductID]; ok {
			d.Product = &p
		}
		out.Details[i] = d
	}
	return &out
}

// InMemoryTxRunner gives MemoryStore all-or-nothing sales. Stock decrements
// and sale inserts made through the bound repositories are reversed when
// the unit of work fails.
type InMemoryTxRunner struct {
	store *MemoryStore
}

func (t *InMemoryTxRunner) Run(ctx context.Context, fn func(products ProductRepository, sales SaleRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	products := &txProducts{InMemoryProductRepository: t.store.Products()}
	sales := &txSales{InMemorySaleRepository: t.store.Sales()}
	if err := fn(products, sales); err != nil {
		for i := len(sales.created) - 1; i >= 0; i-- {
			sales.delete(sales.created[i])
		}
		for i := len(products.decremented) - 1; i >= 0; i-- {
			d := products.decremented[i]
			products.incrementStock(d.id, d.amount)
		}
		return err
	}
	return nil
}

type stockChange struct {
	id     string
	amount int
}

type txProducts struct {
	*InMemoryProductRepository
	decremented []stockChange
}

func (p *txProducts) DecrementStock(id string, amount int) (bool, error) {
	ok, err := p.InMemoryProductRepository.DecrementStock(id, amount)
	if ok {
		p.decremented = append(p.decremented, stockChange{id: id, amount: amount})
	}
	return ok, err
}

type txSales struct {
	*InMemorySaleRepository
	created []string
}

func (s *txSales) Create(sale *models.Sale) error {
	if err := s.InMemorySaleRepository.Create(sale); err != nil {
		return err
	}
	s.created = append(s.created, sale.ID)
	return nil
}
