package utils

// ValidationError представляет ошибку валидации входных данных
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает новую ошибку валидации
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// GatewayError представляет ошибку платежного провайдера.
// Сообщение провайдера передается внутрь, исходная ошибка наружу не выходит.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// NewGatewayError создает новую ошибку платежного провайдера
func NewGatewayError(message string) error {
	return &GatewayError{Message: message}
}

// NotFoundError представляет ошибку отсутствия объекта
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError создает новую ошибку отсутствия объекта
func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// ForbiddenError представляет ошибку запрета действия
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NewForbiddenError создает новую ошибку запрета действия
func NewForbiddenError(message string) error {
	return &ForbiddenError{Message: message}
}
