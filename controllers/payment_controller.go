package controllers

import (
	"encoding/json"
	"net/http"

	"eduProject/services"
	"eduProject/utils"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Параметры пагинации истории платежей
const (
	paymentPageSize    = 10
	paymentMaxPageSize = 50
)

// PaymentController обрабатывает запросы, связанные с платежами
type PaymentController struct {
	paymentService *services.PaymentService
	accessService  *services.AccessService
	validate       *validator.Validate
}

// NewPaymentController создает новый экземпляр PaymentController
func NewPaymentController(db *gorm.DB, gateway services.CheckoutGateway, host string) *PaymentController {
	return &PaymentController{
		paymentService: services.NewPaymentService(db, gateway, host),
		accessService:  services.NewAccessService(db),
		validate:       validator.New(),
	}
}

// CreatePayment обрабатывает запрос на создание платежа.
// Возвращает ссылку на оплату у платежного провайдера.
func (c *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	intent, err := c.paymentService.CreatePaymentIntent(access.UserID, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, intent)
}

// GetPaymentStatus обрабатывает запрос на проверку статуса платежа
func (c *PaymentController) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, utils.NewValidationError("не указан session_id"))
		return
	}

	status, err := c.paymentService.CheckPaymentStatus(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// GetPaymentHistory обрабатывает запрос на получение истории платежей.
// Обычный пользователь видит только свои платежи.
func (c *PaymentController) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := services.ParsePaymentFilter(r.URL.Query())
	pagination := utils.PaginationFromQuery(r.URL.Query(), paymentPageSize, paymentMaxPageSize)

	payments, count, err := c.paymentService.ListPayments(access, filter, pagination)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, utils.PageResponse{Count: count, Results: payments})
}

// PaymentSuccess обрабатывает редирект после успешной оплаты.
// Попутно сверяет статус платежа с провайдером.
func (c *PaymentController) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, utils.NewValidationError("не указан session_id"))
		return
	}

	status, err := c.paymentService.CheckPaymentStatus(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Оплата прошла успешно",
		"status":  status,
	})
}

// PaymentCancel обрабатывает редирект после отмены оплаты.
// Платеж остается неоплаченным, никаких изменений не выполняется.
func (c *PaymentController) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Оплата отменена"})
}
