package controllers

import (
	"encoding/json"
	"net/http"

	"eduProject/services"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SubscriptionController обрабатывает запросы, связанные с подписками
type SubscriptionController struct {
	subscriptionService *services.SubscriptionService
	accessService       *services.AccessService
	validate            *validator.Validate
}

// SubscriptionRequest представляет данные для переключения подписки
type SubscriptionRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// NewSubscriptionController создает новый экземпляр SubscriptionController
func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: services.NewSubscriptionService(db),
		accessService:       services.NewAccessService(db),
		validate:            validator.New(),
	}
}

// ToggleSubscription обрабатывает запрос на переключение подписки на курс.
// Если подписки нет - создает ее, если есть - удаляет.
func (c *SubscriptionController) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	var req SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateStruct(c.validate, req); err != nil {
		respondError(w, err)
		return
	}

	subscribed, err := c.subscriptionService.Toggle(access.UserID, req.CourseID)
	if err != nil {
		respondError(w, err)
		return
	}

	if subscribed {
		respondJSON(w, http.StatusCreated, map[string]string{"message": "Подписка добавлена"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
