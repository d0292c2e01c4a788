package services

import (
	"errors"
	"fmt"
	"testing"

	"eduProject/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB создает базу данных SQLite в памяти для тестов
func setupTestDB(t *testing.T) *gorm.DB {
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

// createTestUser создает пользователя для тестов
func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "hashed-password",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("не удалось создать пользователя %s: %v", email, err)
	}
	return user
}

// createTestCourse создает курс для тестов
func createTestCourse(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:       title,
		Description: "Описание курса",
		OwnerID:     ownerID,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("не удалось создать курс %s: %v", title, err)
	}
	return course
}

// createTestLesson создает урок для тестов
func createTestLesson(t *testing.T, db *gorm.DB, courseID, ownerID uint, title string) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{
		Title:    title,
		CourseID: courseID,
		OwnerID:  ownerID,
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("не удалось создать урок %s: %v", title, err)
	}
	return lesson
}

// accessFor возвращает права пользователя для тестов
func accessFor(user *models.User) *Access {
	return &Access{
		UserID:      user.ID,
		Email:       user.Email,
		IsModerator: user.IsModerator(),
	}
}

// fakeGateway реализует CheckoutGateway для тестов.
// Считает вызовы и позволяет настроить отказ на любом шаге.
type fakeGateway struct {
	productCalls  int
	priceCalls    int
	sessionCalls  int
	retrieveCalls int

	failProduct bool
	failPrice   bool
	failSession bool

	lastAmount   decimal.Decimal
	lastMetadata map[string]string

	// Статусы сессий для RetrieveSession
	sessions map[string]*SessionStatus
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*SessionStatus)}
}

func (g *fakeGateway) CreateProduct(name, description string) (string, error) {
	g.productCalls++
	if g.failProduct {
		return "", errors.New("ошибка провайдера")
	}
	return fmt.Sprintf("prod_%d", g.productCalls), nil
}

func (g *fakeGateway) CreatePrice(productID string, amount decimal.Decimal, currency string) (string, error) {
	g.priceCalls++
	g.lastAmount = amount
	if g.failPrice {
		return "", errors.New("ошибка провайдера")
	}
	return fmt.Sprintf("price_%d", g.priceCalls), nil
}

func (g *fakeGateway) CreateCheckoutSession(priceID, successURL, cancelURL string, metadata map[string]string) (*CheckoutSession, error) {
	g.sessionCalls++
	g.lastMetadata = metadata
	if g.failSession {
		return nil, errors.New("ошибка провайдера")
	}
	id := fmt.Sprintf("cs_test_%d", g.sessionCalls)
	return &CheckoutSession{
		ID:  id,
		URL: "https://checkout.stripe.com/pay/" + id,
	}, nil
}

func (g *fakeGateway) RetrieveSession(sessionID string) (*SessionStatus, error) {
	g.retrieveCalls++
	status, ok := g.sessions[sessionID]
	if !ok {
		return &SessionStatus{PaymentStatus: "unpaid"}, nil
	}
	return status, nil
}

// fakeSender реализует EmailSender для тестов и запоминает отправленные письма
type fakeSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (s *fakeSender) SendEmail(to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

// discardProducer реализует NotificationProducer и отбрасывает задачи
type discardProducer struct {
	tasks []NotificationTask
}

func (p *discardProducer) Enqueue(task NotificationTask) {
	p.tasks = append(p.tasks, task)
}
