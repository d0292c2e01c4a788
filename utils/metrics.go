package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики платежей
	PaymentIntents  int64
	SettledPayments int64
	GatewayErrors   int64
	LastPaymentTime time.Time

	// Метрики уведомлений
	NotificationsSent    int64
	NotificationsDropped int64
	NotificationErrors   int64

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if failed {
		m.FailedRequests++
	}
}

// RecordPaymentIntent записывает метрики создания платежа
func (m *Metrics) RecordPaymentIntent() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PaymentIntents++
	m.LastPaymentTime = time.Now()
}

// RecordSettledPayment записывает метрики подтвержденного платежа
func (m *Metrics) RecordSettledPayment() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SettledPayments++
	m.LastPaymentTime = time.Now()
}

// RecordGatewayError записывает метрики ошибки платежного провайдера
func (m *Metrics) RecordGatewayError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GatewayErrors++
	m.recordErrorLocked("gateway")
}

// RecordNotification записывает метрики отправки уведомления
func (m *Metrics) RecordNotification(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.NotificationErrors++
		m.recordErrorLocked("notification")
		return
	}
	m.NotificationsSent++
}

// RecordDroppedNotification записывает метрики потерянного уведомления
func (m *Metrics) RecordDroppedNotification() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NotificationsDropped++
}

// recordErrorLocked записывает метрики ошибки, mu уже захвачен
func (m *Metrics) recordErrorLocked(errorType string) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"total_requests":        m.TotalRequests,
		"failed_requests":       m.FailedRequests,
		"average_latency":       m.AverageLatency,
		"payment_intents":       m.PaymentIntents,
		"settled_payments":      m.SettledPayments,
		"gateway_errors":        m.GatewayErrors,
		"notifications_sent":    m.NotificationsSent,
		"notifications_dropped": m.NotificationsDropped,
		"notification_errors":   m.NotificationErrors,
		"error_count":           m.ErrorCount,
		"last_error_time":       m.LastErrorTime,
		"error_types":           m.ErrorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.PaymentIntents = 0
	m.SettledPayments = 0
	m.GatewayErrors = 0
	m.NotificationsSent = 0
	m.NotificationsDropped = 0
	m.NotificationErrors = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
