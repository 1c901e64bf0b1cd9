// internal/router/router_test.go
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/database"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

const (
	adminEmail    = "admin@sentorise.example"
	adminPassword = "correct-horse-battery"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// memoryCommerce is an in-process commerce backend.
type memoryCommerce struct {
	mu    sync.Mutex
	carts map[string]*services.Cart
	adds  int
}

func newMemoryCommerce() *memoryCommerce {
	return &memoryCommerce{carts: make(map[string]*services.Cart)}
}

func (m *memoryCommerce) CreateCart(ctx context.Context) (*services.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := "cart-" + uuid.NewString()[:8]
	cart := &services.Cart{ID: id, CheckoutURL: "https://checkout.example/" + id, Lines: []services.CartLineView{}}
	m.carts[id] = cart
	return cart, nil
}

func (m *memoryCommerce) GetCart(ctx context.Context, cartID string) (*services.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, services.ErrCartNotFound
	}
	return cart, nil
}

func (m *memoryCommerce) AddLines(ctx context.Context, cartID string, lines []services.CartLine) (*services.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, services.ErrCartNotFound
	}
	m.adds++
	for i, line := range lines {
		cart.Lines = append(cart.Lines, services.CartLineView{
			ID:         fmt.Sprintf("line-%d-%d", m.adds, i),
			VariantID:  line.VariantID,
			Quantity:   line.Quantity,
			Attributes: line.Attributes,
		})
		cart.TotalQuantity += line.Quantity
	}
	return cart, nil
}

func (m *memoryCommerce) addCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adds
}

type discardMailer struct{}

func (discardMailer) Send(to []string, subject, htmlBody string) error { return nil }

type RouterTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	commerce *memoryCommerce
	token    string
	clients  atomic.Int32
}

func (s *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(i18n.Initialize("en"))
}

func (s *RouterTestSuite) SetupTest() {
	dir := s.T().TempDir()

	// Audit rows are written from a goroutine after the response
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "storefront.db")+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db))
	s.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "router-test-secret", AccessTokenTTL: 1},
		AWS:         config.AWSConfig{LocalUploadDir: filepath.Join(dir, "uploads")},
		Email:       config.EmailConfig{FromName: "Sentorise"},
		Cart:        config.CartConfig{IdempotencyTTL: time.Minute},
		Admin:       config.AdminConfig{SeedEmail: adminEmail, SeedPassword: adminPassword, SeedName: "Store Admin"},
		I18n:        config.I18nConfig{DefaultLocale: "en"},
		Frontend:    config.FrontendConfig{BaseURL: "https://shop.example", AllowedOrigins: []string{"https://shop.example"}},
	}
	s.Require().NoError(database.SeedAdmin(db, cfg.Admin))

	cat, err := catalog.LoadDefault()
	s.Require().NoError(err)

	storage, err := services.NewStorageService(cfg)
	s.Require().NoError(err)

	s.commerce = newMemoryCommerce()
	s.router = Initialize(Dependencies{
		DB:            db,
		Config:        cfg,
		Catalog:       cat,
		Commerce:      s.commerce,
		Idempotency:   services.NewMemoryIdempotencyStore(),
		Receipts:      storage,
		Notifications: services.NewNotificationService(discardMailer{}, cfg),
	})

	s.token = s.login(adminEmail, adminPassword)
}

func (s *RouterTestSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// serve gives every request its own client address so the per-IP rate
// limiters never trip across tests.
func (s *RouterTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	n := s.clients.Add(1)
	req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:4321", n/250, n%250+1)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) do(method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := s.serve(req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *RouterTestSuite) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.token}
}

func (s *RouterTestSuite) login(email, password string) string {
	w, env := s.do(http.MethodPost, "/v1/admin/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.Require().NotEmpty(data.Token)
	return data.Token
}

func (s *RouterTestSuite) TestHealth() {
	w, _ := s.do(http.MethodGet, "/health", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("healthy", body["status"])
	s.EqualValues(8, body["products"])
	s.Equal([]interface{}{"de", "en"}, body["locales"])
}

func (s *RouterTestSuite) TestCatalogRoutes() {
	w, env := s.do(http.MethodGet, "/v1/catalog/products?heating=true", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var list struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.NotZero(list.Total)
	for _, p := range list.Products {
		s.True(p.HasHeating, p.ID)
	}

	w, _ = s.do(http.MethodGet, "/v1/catalog/products/plus-12v200-heated", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/v1/catalog/products/does-not-exist", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.False(env.Success)

	w, _ = s.do(http.MethodGet, "/v1/catalog/products/does-not-exist/accessories", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/catalog/accessories/cable-kit-25mm", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/v1/catalog/accessories/discontinued-item", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Require().NotNil(env.Error)
	s.Equal("Accessory not found", env.Error.Message)

	w, _ = s.do(http.MethodGet, "/v1/catalog/products/core-12v100-din/accessories", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "bundle-van-din")
}

func (s *RouterTestSuite) TestQuizMatch() {
	w, env := s.do(http.MethodPost, "/v1/quiz/match", map[string]interface{}{
		"scenario": "rv",
		"space":    "standard",
		"power":    "heavy",
		"climate":  "cold",
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result services.MatchResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal("plus-12v200-heated", result.Primary.Product.ID)
	s.Equal(110, result.Primary.Score)
	s.Len(result.Alternatives, 2)
	s.True(result.Complete)

	w, env = s.do(http.MethodPost, "/v1/quiz/match", map[string]interface{}{
		"answers": []map[string]string{
			{"question": "scenario", "option": "portable"},
			{"question": "space", "option": "tight"},
		},
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal("portable", result.Selection.Scenario)
	s.False(result.Complete)

	w, env = s.do(http.MethodPost, "/v1/quiz/match", map[string]interface{}{
		"climate": "lunar",
	}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.False(env.Success)

	w, _ = s.do(http.MethodPost, "/v1/quiz/match", map[string]interface{}{
		"answers": []map[string]string{
			{"question": "budget", "option": "low"},
		},
	}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestCalculatorSize() {
	w, env := s.do(http.MethodPost, "/v1/calculator/size", map[string]interface{}{
		"appliances": []map[string]interface{}{
			{"name": "Fridge", "watts": 60, "hours_per_day": 24, "quantity": 1},
		},
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result services.SizingResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal(1, result.AutonomyDays)
	s.InDelta(1440, result.DailyWh, 0.001)
	s.Equal(169, result.RecommendedAh)

	w, _ = s.do(http.MethodPost, "/v1/calculator/size", map[string]interface{}{
		"appliances":    []map[string]interface{}{},
		"autonomy_days": 0,
	}, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/calculator/presets", nil, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestContentAndBlog() {
	w, env := s.do(http.MethodPost, "/v1/content/recommendations", map[string]interface{}{
		"tags": []string{"Cold Weather"},
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), "plus-12v200-heated")

	w, _ = s.do(http.MethodGet, "/v1/blog", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/blog/lifepo4-cold-weather-charging/recommendations", nil, nil)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/blog/no-such-article", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestCartFlow() {
	w, env := s.do(http.MethodPost, "/v1/cart", nil, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	var created struct {
		Cart services.Cart `json:"cart"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	cartID := created.Cart.ID

	item := map[string]interface{}{"item_id": "plus-12v200-heated", "quantity": 1}
	key := map[string]string{"Idempotency-Key": "click-1"}

	w, env = s.do(http.MethodPost, "/v1/cart/"+cartID+"/items", item, key)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var mutation struct {
		Duplicate bool `json:"duplicate"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &mutation))
	s.False(mutation.Duplicate)

	w, env = s.do(http.MethodPost, "/v1/cart/"+cartID+"/items", item, key)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &mutation))
	s.True(mutation.Duplicate)
	s.Equal(1, s.commerce.addCount())

	w, _ = s.do(http.MethodPost, "/v1/cart/"+cartID+"/bundles", map[string]string{
		"bundle_id":  "bundle-van-din",
		"product_id": "core-12v100-din",
	}, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(2, s.commerce.addCount())

	w, _ = s.do(http.MethodPost, "/v1/cart/"+cartID+"/bundles", map[string]string{
		"bundle_id":  "bundle-portable",
		"product_id": "plus-12v200-heated",
	}, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPost, "/v1/cart/"+cartID+"/items", map[string]interface{}{"item_id": "plus-12v200-heated", "quantity": 0}, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/cart/missing-cart", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, env = s.do(http.MethodGet, "/v1/cart/"+cartID, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Equal(4, created.Cart.TotalQuantity)
}

func (s *RouterTestSuite) TestWarrantyRegistration() {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"product_id":    "plus-12v200-heated",
		"serial_number": "sn-2024000456",
		"purchase_date": "2024-03-15",
		"customer_name": "Jamie Doe",
		"email":         "Jamie@Example.com",
		"country":       "de",
	}
	for k, v := range fields {
		s.Require().NoError(writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("receipt", "receipt.pdf")
	s.Require().NoError(err)
	_, err = part.Write([]byte("%PDF-1.4 receipt"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/warranty", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := s.serve(req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var registration models.WarrantyRegistration
	s.Require().NoError(s.db.First(&registration).Error)
	s.Equal("SN-2024000456", registration.SerialNumber)
	s.True(strings.HasPrefix(registration.ReceiptURL, "/uploads/receipts/"))

	w, env := s.do(http.MethodGet, "/v1/warranty/sn-2024000456", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(string(env.Data), "jamie@example.com")

	w, _ = s.do(http.MethodPost, "/v1/warranty", map[string]string{
		"product_id":    "plus-12v200-heated",
		"serial_number": "SN-2024000456",
		"purchase_date": "2024-03-15",
		"customer_name": "Someone Else",
		"email":         "else@example.com",
	}, nil)
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/warranty/SN-9999999999", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestLeadsAndAdminWorkflow() {
	w, env := s.do(http.MethodPost, "/v1/leads", map[string]interface{}{
		"email":   "rv.owner@example.com",
		"source":  "contact",
		"message": "Which battery for a 7m motorhome?",
	}, map[string]string{"Accept-Language": "de-DE"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		LeadID string `json:"lead_id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))

	w, _ = s.do(http.MethodPost, "/v1/feedback", map[string]interface{}{
		"rating":  4,
		"message": "The quiz was helpful",
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	// Admin routes need a token
	w, _ = s.do(http.MethodGet, "/v1/admin/leads", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, env = s.do(http.MethodGet, "/v1/admin/leads", nil, s.authHeaders())
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), "rv.owner@example.com")

	w, _ = s.do(http.MethodPut, "/v1/admin/leads/"+created.LeadID+"/status", map[string]string{
		"status": "contacted",
		"notes":  "Called back",
	}, s.authHeaders())
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var lead models.Lead
	s.Require().NoError(s.db.First(&lead, "id = ?", created.LeadID).Error)
	s.Equal(models.LeadStatus("contacted"), lead.Status)
	s.Equal("de", lead.Locale)

	w, _ = s.do(http.MethodPut, "/v1/admin/leads/"+created.LeadID+"/status", map[string]string{
		"status": "archived-forever",
	}, s.authHeaders())
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPut, "/v1/admin/leads/"+uuid.NewString()+"/status", map[string]string{
		"status": "contacted",
	}, s.authHeaders())
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/admin/dashboard/stats", nil, s.authHeaders())
	s.Equal(http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/leads/export", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	w = s.serve(req)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	s.Equal("1", w.Header().Get("X-Total-Count"))
	s.True(strings.HasPrefix(w.Body.String(), "id,created_at,email"))
}

func (s *RouterTestSuite) TestEditorRole() {
	editor := &models.AdminUser{Email: "editor@sentorise.example", Name: "Editor", Role: models.AdminRoleEditor, Active: true}
	s.Require().NoError(editor.SetPassword("editor-password"))
	s.Require().NoError(s.db.Create(editor).Error)

	token, err := utils.GenerateJWT(editor.ID, editor.Email, string(editor.Role), 1)
	s.Require().NoError(err)
	headers := map[string]string{"Authorization": "Bearer " + token}

	w, _ := s.do(http.MethodGet, "/v1/admin/feedback", nil, headers)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/admin/feedback/export", nil, headers)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/admin/warranty", nil, headers)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RouterTestSuite) TestAdminLogin() {
	w, env := s.do(http.MethodPost, "/v1/admin/auth/login", map[string]string{
		"email":    adminEmail,
		"password": "wrong-password",
	}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(env.Success)

	w, env = s.do(http.MethodGet, "/v1/admin/auth/me", nil, s.authHeaders())
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), adminEmail)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
