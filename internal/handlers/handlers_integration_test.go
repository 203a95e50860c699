package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missingID = "64b7f0c2a1b2c3d4e5f60718"

// setupApp builds the full application on a private in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Name: "backoffice-test"},
		JWT: config.JWTConfig{Secret: "test_jwt_secret", ExpiresIn: time.Hour},
		RateLimit: config.RateLimitConfig{
			Max: 10000, Window: time.Minute,
			LoginMax: 10000, LoginWindow: time.Minute,
		},
	}
	return server.NewApp(server.NewDeps(cfg, server.GORMStorage(db), nil))
}

// TestMain silences request logging for cleaner output.
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, email, role string) (token, id string) {
	t.Helper()
	body := map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "Password123",
	}
	if role != "" {
		body["role"] = role
	}
	status, resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, status, resp)
	user := resp["user"].(map[string]interface{})
	return resp["token"].(string), user["id"].(string)
}

func createCategory(t *testing.T, app *fiber.App, token, name string) string {
	t.Helper()
	status, resp := doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, status, resp)
	return resp["category"].(map[string]interface{})["id"].(string)
}

func createProduct(t *testing.T, app *fiber.App, token, categoryID, name string, price float64, stock int) string {
	t.Helper()
	status, resp := doJSON(t, app, http.MethodPost, "/api/products", token, map[string]interface{}{
		"categoryId": categoryID,
		"name":       name,
		"price":      price,
		"stock":      stock,
	})
	require.Equal(t, http.StatusCreated, status, resp)
	return resp["product"].(map[string]interface{})["id"].(string)
}

func productStock(t *testing.T, app *fiber.App, token, id string) float64 {
	t.Helper()
	status, resp := doJSON(t, app, http.MethodGet, "/api/products/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	return resp["product"].(map[string]interface{})["stock"].(float64)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	body := map[string]string{"name": "Ana", "email": "Ana@Example.com", "password": "Password123"}
	status, resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", resp["message"])
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "employee", user["role"])
	assert.NotContains(t, user, "password")

	status, resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", resp["message"])

	status, resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ana@example.com", "password": "Password123"})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, resp["token"])

	status, resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ana@example.com", "password": "WrongPass1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", resp["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "nobody@example.com", "password": "Password123"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthRegisterValidation(t *testing.T) {
	app := setupApp(t)

	status, resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Ana", "email": "not-an-email", "password": "weak"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", resp["message"])
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestProtectedEndpointsWithoutAuth(t *testing.T) {
	app := setupApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/sales", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/sales", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleBasedAccess(t *testing.T) {
	app := setupApp(t)
	employee, _ := register(t, app, "emp@example.com", "")
	admin, _ := register(t, app, "admin@example.com", "admin")

	status, _ := doJSON(t, app, http.MethodPost, "/api/categories", employee, map[string]string{"name": "Office"})
	assert.Equal(t, http.StatusForbidden, status)

	categoryID := createCategory(t, app, admin, "Office")

	status, resp := doJSON(t, app, http.MethodPost, "/api/products", employee, map[string]interface{}{
		"categoryId": categoryID, "name": "Pen", "price": 10, "stock": 5,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to perform this action", resp["message"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/users", employee, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = doJSON(t, app, http.MethodGet, "/api/users", admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["users"], 2)

	status, _ = doJSON(t, app, http.MethodGet, "/api/sales/report", employee, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestProductEndpoints(t *testing.T) {
	app := setupApp(t)
	admin, _ := register(t, app, "admin@example.com", "admin")
	office := createCategory(t, app, admin, "Office")
	tech := createCategory(t, app, admin, "Tech")

	status, resp := doJSON(t, app, http.MethodPost, "/api/products", admin, map[string]interface{}{
		"categoryId": missingID, "name": "Pen", "price": 10, "stock": 5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Category does not exist", resp["message"])

	status, resp = doJSON(t, app, http.MethodPost, "/api/products", admin, map[string]interface{}{
		"categoryId": office, "name": "Pen", "price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")

	pen := createProduct(t, app, admin, office, "Blue Pen", 10, 5)
	createProduct(t, app, admin, office, "Pencil", 2.5, 100)
	createProduct(t, app, admin, tech, "Laptop", 900, 3)

	status, resp = doJSON(t, app, http.MethodGet, "/api/products", admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["products"], 3)

	status, resp = doJSON(t, app, http.MethodGet, "/api/products/search/name?name=PEN", admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["products"], 2)

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/search/name?name=tablet", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = doJSON(t, app, http.MethodGet, "/api/products/filter/category?categoryId="+tech, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["products"], 1)

	status, resp = doJSON(t, app, http.MethodGet, "/api/products/filter/price?minPrice=2&maxPrice=10", admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["products"], 2)

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/filter/price?minPrice=20&maxPrice=10", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = doJSON(t, app, http.MethodPut, "/api/products/"+pen, admin, map[string]interface{}{
		"name": "Red Pen", "price": 12, "stock": 7,
	})
	assert.Equal(t, http.StatusOK, status)
	product := resp["product"].(map[string]interface{})
	assert.Equal(t, "Red Pen", product["name"])
	assert.Equal(t, float64(12), product["price"])
	assert.Equal(t, office, product["categoryId"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/not-an-id", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/products/"+pen, admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/"+pen, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategoryEndpoints(t *testing.T) {
	app := setupApp(t)
	admin, _ := register(t, app, "admin@example.com", "admin")
	employee, _ := register(t, app, "emp@example.com", "")

	id := createCategory(t, app, admin, "Office")

	status, resp := doJSON(t, app, http.MethodGet, "/api/categories", employee, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["categories"], 1)

	status, resp = doJSON(t, app, http.MethodPut, "/api/categories/"+id, admin,
		map[string]string{"name": "Stationery", "description": "Paper and pens"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Stationery", resp["category"].(map[string]interface{})["name"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/categories/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/categories/"+id, employee, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSaleWorkflow(t *testing.T) {
	app := setupApp(t)
	admin, _ := register(t, app, "admin@example.com", "admin")
	employee, employeeID := register(t, app, "emp@example.com", "")
	category := createCategory(t, app, admin, "Office")
	pen := createProduct(t, app, admin, category, "Pen", 10, 5)

	status, resp := doJSON(t, app, http.MethodPost, "/api/sales", employee, map[string]interface{}{
		"details": []map[string]interface{}{{"product": pen, "amountSold": 3}},
	})
	require.Equal(t, http.StatusCreated, status, resp)
	assert.Equal(t, "Sale registered successfully", resp["message"])
	sale := resp["sale"].(map[string]interface{})
	saleID := sale["id"].(string)
	assert.Equal(t, float64(30), sale["total"])
	assert.Equal(t, employeeID, sale["userId"])
	details := sale["details"].([]interface{})
	require.Len(t, details, 1)
	line := details[0].(map[string]interface{})
	assert.Equal(t, "Pen", line["name"])
	assert.Equal(t, float64(3), line["amountSold"])
	assert.Equal(t, float64(30), line["subtotal"])
	assert.Equal(t, float64(2), productStock(t, app, admin, pen))

	status, resp = doJSON(t, app, http.MethodPost, "/api/sales", employee, map[string]interface{}{
		"details": []map[string]interface{}{{"product": pen, "amountSold": 3}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["message"], "insufficient stock")
	assert.Equal(t, float64(2), productStock(t, app, admin, pen))

	status, resp = doJSON(t, app, http.MethodPost, "/api/sales", employee, map[string]interface{}{
		"details": []map[string]interface{}{
			{"product": pen, "amountSold": 1},
			{"product": missingID, "amountSold": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, resp["message"], missingID)
	assert.Equal(t, float64(2), productStock(t, app, admin, pen))

	status, resp = doJSON(t, app, http.MethodPost, "/api/sales", employee, map[string]interface{}{
		"details": []map[string]interface{}{{"product": pen, "amountSold": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["errors"], "details[0].amountSold")

	status, _ = doJSON(t, app, http.MethodPost, "/api/sales", employee, map[string]interface{}{"details": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = doJSON(t, app, http.MethodGet, "/api/sales/"+saleID, employee, nil)
	assert.Equal(t, http.StatusOK, status)
	fetched := resp["sale"].(map[string]interface{})
	assert.Equal(t, saleID, fetched["id"])
	assert.Equal(t, "emp@example.com", fetched["user"].(map[string]interface{})["email"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/sales/"+missingID, employee, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = doJSON(t, app, http.MethodGet, "/api/sales", employee, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), resp["total"])
	assert.Len(t, resp["sales"], 1)

	status, resp = doJSON(t, app, http.MethodGet, "/api/sales?userId="+missingID, employee, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), resp["total"])

	today := time.Now().UTC().Format("2006-01-02")
	status, resp = doJSON(t, app, http.MethodGet, "/api/sales?startDate="+today+"&endDate="+today+"&limit=5", employee, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), resp["total"])
	assert.Equal(t, float64(1), resp["page"])
	assert.Equal(t, float64(1), resp["totalPages"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/sales?startDate=yesterday", employee, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/sales?page=0", employee, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSalesReport(t *testing.T) {
	app := setupApp(t)
	admin, _ := register(t, app, "admin@example.com", "admin")
	category := createCategory(t, app, admin, "Office")
	pen := createProduct(t, app, admin, category, "Pen", 10, 5)

	status, _ := doJSON(t, app, http.MethodPost, "/api/sales", admin, map[string]interface{}{
		"details": []map[string]interface{}{{"product": pen, "amountSold": 1}},
	})
	require.Equal(t, http.StatusCreated, status)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/report", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sales_report.pdf")
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestUserManagement(t *testing.T) {
	app := setupApp(t)
	admin, _ := register(t, app, "admin@example.com", "admin")
	_, employeeID := register(t, app, "emp@example.com", "")
	register(t, app, "taken@example.com", "")

	status, resp := doJSON(t, app, http.MethodPut, "/api/users/"+employeeID, admin,
		map[string]string{"name": "Promoted", "email": "emp@example.com", "role": "admin"})
	assert.Equal(t, http.StatusOK, status, resp)
	assert.Equal(t, "admin", resp["user"].(map[string]interface{})["role"])

	status, _ = doJSON(t, app, http.MethodPut, "/api/users/"+employeeID, admin,
		map[string]string{"name": "Promoted", "email": "taken@example.com", "role": "admin"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+employeeID, admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+employeeID, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
