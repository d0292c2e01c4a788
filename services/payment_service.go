package services

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"eduProject/models"
	"eduProject/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// Суммы по умолчанию, если сумма не указана в запросе
	defaultCourseAmount = decimal.NewFromInt(1000) // 1000 рублей за курс
	defaultLessonAmount = decimal.NewFromInt(500)  // 500 рублей за урок
)

// CreatePaymentRequest представляет данные для создания платежа
type CreatePaymentRequest struct {
	CourseID *uint            `json:"course_id"`
	LessonID *uint            `json:"lesson_id"`
	Amount   *decimal.Decimal `json:"amount"`
}

// PaymentIntentDTO представляет результат создания платежа
type PaymentIntentDTO struct {
	PaymentID   uint            `json:"payment_id"`
	PaymentLink string          `json:"payment_link"`
	SessionID   string          `json:"session_id"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentStatusDTO представляет результат проверки статуса платежа
type PaymentStatusDTO struct {
	SessionID     string          `json:"session_id"`
	PaymentStatus string          `json:"payment_status"`
	IsPaid        bool            `json:"is_paid"`
	AmountTotal   decimal.Decimal `json:"amount_total"`
}

// PaymentDTO представляет платеж в истории платежей
type PaymentDTO struct {
	ID            uint            `json:"id"`
	UserEmail     string          `json:"user_email"`
	CourseID      *uint           `json:"course_id,omitempty"`
	CourseTitle   string          `json:"course_title,omitempty"`
	LessonID      *uint           `json:"lesson_id,omitempty"`
	LessonTitle   string          `json:"lesson_title,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	IsPaid        bool            `json:"is_paid"`
	PaymentDate   string          `json:"payment_date"`
}

// PaymentFilter представляет фильтры истории платежей
type PaymentFilter struct {
	CourseID      *uint
	LessonID      *uint
	PaymentMethod string
	Ordering      string // payment_date или -payment_date
}

// PaymentService координирует создание платежей и сверку их статуса
type PaymentService struct {
	db      *gorm.DB
	gateway CheckoutGateway
	host    string
}

// NewPaymentService создает новый экземпляр PaymentService
func NewPaymentService(db *gorm.DB, gateway CheckoutGateway, host string) *PaymentService {
	return &PaymentService{
		db:      db,
		gateway: gateway,
		host:    host,
	}
}

// CreatePaymentIntent создает намерение платежа: продукт, цену и сессию у
// провайдера, затем запись о платеже в базе данных. Запись создается последней,
// поэтому при сбое на любом шаге провайдера частичных платежей не остается.
// Созданные до сбоя объекты у провайдера не удаляются.
func (s *PaymentService) CreatePaymentIntent(userID uint, req CreatePaymentRequest) (*PaymentIntentDTO, error) {
	// Проверяем целевой объект до любых обращений к провайдеру
	if req.CourseID != nil && req.LessonID != nil {
		return nil, utils.NewValidationError("можно указать только курс или урок, но не оба одновременно")
	}
	if req.CourseID == nil && req.LessonID == nil {
		return nil, utils.NewValidationError("должен быть указан курс или урок")
	}

	// Определяем объект оплаты и сумму
	var (
		title       string
		description string
		objectType  string
		objectID    uint
		amount      decimal.Decimal
	)

	if req.CourseID != nil {
		var course models.Course
		if err := s.db.First(&course, *req.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewNotFoundError("курс не найден")
			}
			return nil, errors.New("ошибка при поиске курса")
		}
		title = course.Title
		description = course.Description
		objectType = "course"
		objectID = course.ID
		amount = defaultCourseAmount
	} else {
		var lesson models.Lesson
		if err := s.db.First(&lesson, *req.LessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewNotFoundError("урок не найден")
			}
			return nil, errors.New("ошибка при поиске урока")
		}
		title = lesson.Title
		description = lesson.Description
		objectType = "lesson"
		objectID = lesson.ID
		amount = defaultLessonAmount
	}

	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, utils.NewValidationError("сумма платежа должна быть больше 0")
		}
		amount = *req.Amount
	}

	// Создаем продукт у провайдера
	productID, err := s.gateway.CreateProduct(title, description)
	if err != nil {
		utils.GetMetrics().RecordGatewayError()
		return nil, err
	}

	// Создаем цену для продукта
	priceID, err := s.gateway.CreatePrice(productID, amount, "")
	if err != nil {
		utils.GetMetrics().RecordGatewayError()
		return nil, err
	}

	// Формируем URL для редиректов. Провайдер сам подставляет
	// идентификатор сессии вместо плейсхолдера.
	successURL := fmt.Sprintf("%s/api/payments/success?session_id={CHECKOUT_SESSION_ID}", s.host)
	cancelURL := fmt.Sprintf("%s/api/payments/cancel", s.host)

	// Метаданные для идентификации платежа на стороне провайдера
	metadata := map[string]string{
		"user_id":     metadataValue(userID),
		"object_type": objectType,
		"object_id":   metadataValue(objectID),
	}

	// Создаем сессию оплаты
	session, err := s.gateway.CreateCheckoutSession(priceID, successURL, cancelURL, metadata)
	if err != nil {
		utils.GetMetrics().RecordGatewayError()
		return nil, err
	}

	// Создаем запись о платеже в базе данных
	payment := &models.Payment{
		UserID:            userID,
		CourseID:          req.CourseID,
		LessonID:          req.LessonID,
		Amount:            amount,
		PaymentMethod:     models.PaymentMethodTransfer,
		StripeProductID:   productID,
		StripePriceID:     priceID,
		StripeSessionID:   session.ID,
		StripePaymentLink: session.URL,
		IsPaid:            false,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, errors.New("не удалось сохранить платеж")
	}

	utils.GetMetrics().RecordPaymentIntent()
	utils.LogInfo("Создан платеж #%d на сумму %s (%s #%d)", payment.ID, amount.String(), objectType, objectID)

	return &PaymentIntentDTO{
		PaymentID:   payment.ID,
		PaymentLink: session.URL,
		SessionID:   session.ID,
		Amount:      amount,
	}, nil
}

// CheckPaymentStatus сверяет локальный статус платежа со статусом сессии
// у провайдера. Переход is_paid возможен только из false в true, повторный
// вызов для оплаченной сессии дополнительной записи не выполняет.
func (s *PaymentService) CheckPaymentStatus(sessionID string) (*PaymentStatusDTO, error) {
	if sessionID == "" {
		return nil, utils.NewValidationError("не указан session_id")
	}

	// Получаем статус сессии у провайдера
	status, err := s.gateway.RetrieveSession(sessionID)
	if err != nil {
		utils.GetMetrics().RecordGatewayError()
		return nil, err
	}

	// Находим соответствующий платеж
	var payment models.Payment
	if err := s.db.Where("stripe_session_id = ?", sessionID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("платеж не найден")
		}
		return nil, errors.New("ошибка при поиске платежа")
	}

	if status.PaymentStatus == SessionPaymentStatusPaid && !payment.IsPaid {
		if err := s.db.Model(&payment).Update("is_paid", true).Error; err != nil {
			return nil, errors.New("ошибка при обновлении статуса платежа")
		}
		payment.IsPaid = true
		utils.GetMetrics().RecordSettledPayment()
		utils.LogInfo("Платеж #%d подтвержден по сессии %s", payment.ID, sessionID)
	}

	return &PaymentStatusDTO{
		SessionID:     sessionID,
		PaymentStatus: status.PaymentStatus,
		IsPaid:        payment.IsPaid,
		AmountTotal:   fromMinorUnits(status.AmountTotal),
	}, nil
}

// CreateCashPayment создает платеж наличными без обращения к провайдеру
func (s *PaymentService) CreateCashPayment(userID uint, courseID, lessonID *uint, amount decimal.Decimal) (*models.Payment, error) {
	payment := &models.Payment{
		UserID:        userID,
		CourseID:      courseID,
		LessonID:      lessonID,
		Amount:        amount,
		PaymentMethod: models.PaymentMethodCash,
		PaymentDate:   time.Now(),
	}

	if err := s.db.Create(payment).Error; err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, errors.New("не удалось сохранить платеж")
	}

	return payment, nil
}

// ListPayments возвращает историю платежей с учетом видимости:
// обычный пользователь видит только свои платежи, модератор - все.
func (s *PaymentService) ListPayments(access *Access, filter PaymentFilter, p utils.Pagination) ([]PaymentDTO, int64, error) {
	query := s.db.Model(&models.Payment{})

	if !access.IsModerator {
		query = query.Where("user_id = ?", access.UserID)
	}

	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.LessonID != nil {
		query = query.Where("lesson_id = ?", *filter.LessonID)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете платежей")
	}

	// Сортировка по дате платежа, по умолчанию новые сверху
	order := "payment_date DESC"
	if filter.Ordering == "payment_date" {
		order = "payment_date ASC"
	}

	var payments []models.Payment
	if err := query.
		Preload("User").
		Preload("Course").
		Preload("Lesson").
		Order(order).
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&payments).Error; err != nil {
		return nil, 0, errors.New("ошибка при получении списка платежей")
	}

	result := make([]PaymentDTO, 0, len(payments))
	for _, payment := range payments {
		result = append(result, paymentToDTO(&payment))
	}

	return result, count, nil
}

// ParsePaymentFilter разбирает фильтры истории платежей из строки запроса
func ParsePaymentFilter(values url.Values) PaymentFilter {
	filter := PaymentFilter{
		PaymentMethod: values.Get("payment_method"),
		Ordering:      values.Get("ordering"),
	}

	if raw := values.Get("course_id"); raw != "" {
		if id, err := parseUintParam(raw); err == nil {
			filter.CourseID = &id
		}
	}
	if raw := values.Get("lesson_id"); raw != "" {
		if id, err := parseUintParam(raw); err == nil {
			filter.LessonID = &id
		}
	}

	return filter
}

// parseUintParam разбирает числовой идентификатор из строки запроса
func parseUintParam(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// paymentToDTO конвертирует платеж в DTO
func paymentToDTO(payment *models.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:            payment.ID,
		UserEmail:     payment.User.Email,
		CourseID:      payment.CourseID,
		LessonID:      payment.LessonID,
		Amount:        payment.Amount,
		PaymentMethod: string(payment.PaymentMethod),
		IsPaid:        payment.IsPaid,
		PaymentDate:   payment.PaymentDate.Format(time.RFC3339),
	}
	if payment.Course != nil {
		dto.CourseTitle = payment.Course.Title
	}
	if payment.Lesson != nil {
		dto.LessonTitle = payment.Lesson.Title
	}
	return dto
}
