package models

import (
	"time"

	"eduProject/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod представляет способ оплаты
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"     // Наличные
	PaymentMethodTransfer PaymentMethod = "transfer" // Перевод на счет
)

// Payment представляет платеж за курс или урок.
// Заполняется ровно одно из полей CourseID/LessonID.
type Payment struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"`
	UserID   uint    `gorm:"column:user_id;not null;index"`
	User     User    `gorm:"foreignKey:UserID;references:ID"`
	CourseID *uint   `gorm:"column:course_id;index"`
	Course   *Course `gorm:"foreignKey:CourseID;references:ID"`
	LessonID *uint   `gorm:"column:lesson_id;index"`
	Lesson   *Lesson `gorm:"foreignKey:LessonID;references:ID"`

	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"` // Сумма в рублях
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:varchar(10);not null"`

	// Поля привязки к Stripe: либо все пустые (оплата наличными),
	// либо все заполнены (оплата через платежную сессию)
	StripeProductID   string `gorm:"column:stripe_product_id;size:255"`
	StripePriceID     string `gorm:"column:stripe_price_id;size:255"`
	StripeSessionID   string `gorm:"column:stripe_session_id;size:255;index"`
	StripePaymentLink string `gorm:"column:stripe_payment_link;size:500"`

	IsPaid      bool      `gorm:"column:is_paid;not null;default:false"`
	PaymentDate time.Time `gorm:"column:payment_date;not null"` // Дата создания платежа, не изменяется
}

func (Payment) TableName() string {
	return "payments"
}

// Validate проверяет инварианты платежа.
// Единственная точка проверки: вызывается хуком BeforeSave при любой записи.
func (p *Payment) Validate() error {
	if p.CourseID != nil && p.LessonID != nil {
		return utils.NewValidationError("можно указать только курс или урок, но не оба одновременно")
	}
	if p.CourseID == nil && p.LessonID == nil {
		return utils.NewValidationError("необходимо указать либо курс, либо урок")
	}

	// Поля Stripe заполняются только все вместе
	stripeFields := 0
	for _, v := range []string{p.StripeProductID, p.StripePriceID, p.StripeSessionID, p.StripePaymentLink} {
		if v != "" {
			stripeFields++
		}
	}
	if stripeFields != 0 && stripeFields != 4 {
		return utils.NewValidationError("поля Stripe должны быть заполнены все вместе или не заполнены вовсе")
	}

	return nil
}

// BeforeSave хук для проверки инвариантов перед записью
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

// BeforeCreate хук для установки даты платежа
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	return nil
}
