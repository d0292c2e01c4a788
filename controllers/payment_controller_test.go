package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduProject/models"
	"eduProject/services"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupControllerDB создает базу данных SQLite в памяти для тестов контроллеров
func setupControllerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть тестовую базу данных: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Subscription{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("не удалось выполнить миграцию: %v", err)
	}

	return db
}

// stubGateway реализует services.CheckoutGateway для тестов контроллеров
type stubGateway struct {
	sessions map[string]*services.SessionStatus
}

func newStubGateway() *stubGateway {
	return &stubGateway{sessions: make(map[string]*services.SessionStatus)}
}

func (g *stubGateway) CreateProduct(name, description string) (string, error) {
	return "prod_1", nil
}

func (g *stubGateway) CreatePrice(productID string, amount decimal.Decimal, currency string) (string, error) {
	return "price_1", nil
}

func (g *stubGateway) CreateCheckoutSession(priceID, successURL, cancelURL string, metadata map[string]string) (*services.CheckoutSession, error) {
	return &services.CheckoutSession{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.com/pay/cs_test_1",
	}, nil
}

func (g *stubGateway) RetrieveSession(sessionID string) (*services.SessionStatus, error) {
	status, ok := g.sessions[sessionID]
	if !ok {
		return &services.SessionStatus{PaymentStatus: "unpaid"}, nil
	}
	return status, nil
}

// authRequest добавляет идентификатор пользователя в контекст запроса
func authRequest(r *http.Request, userID uint) *http.Request {
	ctx := context.WithValue(r.Context(), "user_id", userID)
	return r.WithContext(ctx)
}

func TestCreatePaymentHandler(t *testing.T) {
	db := setupControllerDB(t)
	controller := NewPaymentController(db, newStubGateway(), "http://localhost:8080")

	user := &models.User{Email: "student@example.com", Password: "hash", Role: models.RoleMember, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("не удалось создать пользователя: %v", err)
	}
	course := &models.Course{Title: "Основы Go", OwnerID: user.ID}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("не удалось создать курс: %v", err)
	}

	body := fmt.Sprintf(`{"course_id": %d}`, course.ID)
	req, err := http.NewRequest("POST", "/api/payments/create", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	req = authRequest(req, user.ID)

	rr := httptest.NewRecorder()
	controller.CreatePayment(rr, req)

	// Проверяем статус код
	if status := rr.Code; status != http.StatusCreated {
		t.Fatalf("handler returned wrong status code: got %v want %v, body: %s",
			status, http.StatusCreated, rr.Body.String())
	}

	// Проверяем тело ответа
	var response struct {
		PaymentID   uint   `json:"payment_id"`
		PaymentLink string `json:"payment_link"`
		SessionID   string `json:"session_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if response.PaymentLink == "" || response.SessionID == "" {
		t.Errorf("payment link and session id must be set: %+v", response)
	}
}

func TestCreatePaymentHandlerInvalidTarget(t *testing.T) {
	db := setupControllerDB(t)
	controller := NewPaymentController(db, newStubGateway(), "http://localhost:8080")

	user := &models.User{Email: "student@example.com", Password: "hash", Role: models.RoleMember, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("не удалось создать пользователя: %v", err)
	}

	// Не указан ни курс, ни урок
	req, err := http.NewRequest("POST", "/api/payments/create", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	req = authRequest(req, user.ID)

	rr := httptest.NewRecorder()
	controller.CreatePayment(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusBadRequest)
	}
}

func TestGetPaymentStatusHandlerMissingSessionID(t *testing.T) {
	db := setupControllerDB(t)
	controller := NewPaymentController(db, newStubGateway(), "http://localhost:8080")

	req, err := http.NewRequest("GET", "/api/payments/status", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	controller.GetPaymentStatus(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusBadRequest)
	}
}

func TestPaymentCancelHandler(t *testing.T) {
	db := setupControllerDB(t)
	controller := NewPaymentController(db, newStubGateway(), "http://localhost:8080")

	req, err := http.NewRequest("GET", "/api/payments/cancel", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	controller.PaymentCancel(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}
}
