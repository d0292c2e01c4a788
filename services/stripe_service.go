package services

import (
	"errors"
	"strconv"

	"eduProject/config"
	"eduProject/utils"
	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// CheckoutSession представляет созданную платежную сессию
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus представляет статус платежной сессии.
// AmountTotal хранится в минимальных единицах валюты (копейках).
type SessionStatus struct {
	PaymentStatus string
	AmountTotal   int64
}

// SessionPaymentStatusPaid статус оплаченной сессии у провайдера
const SessionPaymentStatusPaid = "paid"

// CheckoutGateway описывает клиент платежного провайдера
type CheckoutGateway interface {
	CreateProduct(name, description string) (string, error)
	CreatePrice(productID string, amount decimal.Decimal, currency string) (string, error)
	CreateCheckoutSession(priceID, successURL, cancelURL string, metadata map[string]string) (*CheckoutSession, error)
	RetrieveSession(sessionID string) (*SessionStatus, error)
}

// StripeService предоставляет методы для работы со Stripe API.
// Клиент не хранит локального состояния, ключ задается при создании.
type StripeService struct {
	api      *client.API
	currency string
}

// NewStripeService создает новый экземпляр StripeService
func NewStripeService(cfg *config.Config) *StripeService {
	api := &client.API{}
	api.Init(cfg.Stripe.SecretKey, nil)

	return &StripeService{
		api:      api,
		currency: cfg.Stripe.Currency,
	}
}

// CreateProduct создает продукт в Stripe
func (s *StripeService) CreateProduct(name, description string) (string, error) {
	params := &stripe.ProductParams{
		Name: stripe.String(name),
	}
	if description != "" {
		params.Description = stripe.String(description)
	}

	product, err := s.api.Products.New(params)
	if err != nil {
		return "", wrapStripeError("Ошибка создания продукта в Stripe", err)
	}

	return product.ID, nil
}

// CreatePrice создает цену в Stripe.
// amount задается в рублях и преобразуется в копейки.
func (s *StripeService) CreatePrice(productID string, amount decimal.Decimal, currency string) (string, error) {
	if currency == "" {
		currency = s.currency
	}

	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(toMinorUnits(amount)),
		Currency:   stripe.String(currency),
	}

	price, err := s.api.Prices.New(params)
	if err != nil {
		return "", wrapStripeError("Ошибка создания цены в Stripe", err)
	}

	return price.ID, nil
}

// CreateCheckoutSession создает сессию оплаты в Stripe
func (s *StripeService) CreateCheckoutSession(priceID, successURL, cancelURL string, metadata map[string]string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("Ошибка создания сессии оплаты в Stripe", err)
	}

	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// RetrieveSession получает информацию о сессии
func (s *StripeService) RetrieveSession(sessionID string) (*SessionStatus, error) {
	session, err := s.api.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return nil, wrapStripeError("Ошибка получения сессии из Stripe", err)
	}

	return &SessionStatus{
		PaymentStatus: string(session.PaymentStatus),
		AmountTotal:   session.AmountTotal,
	}, nil
}

// toMinorUnits преобразует сумму в рублях в копейки с отбрасыванием дробной части
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// fromMinorUnits преобразует сумму в копейках обратно в рубли
func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}

// wrapStripeError оборачивает ошибку Stripe в GatewayError.
// Исходная ошибка провайдера за границу клиента не выходит.
func wrapStripeError(message string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return utils.NewGatewayError(message + ": " + stripeErr.Msg)
	}
	return utils.NewGatewayError(message + ": " + err.Error())
}

// metadataValue приводит идентификатор к строке для метаданных сессии
func metadataValue(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
