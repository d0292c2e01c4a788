package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"eduProject/services"
	"eduProject/utils"
	"github.com/go-playground/validator/v10"
)

// respondJSON отправляет JSON ответ с указанным статусом
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError отправляет ошибку сервиса с подходящим HTTP статусом
func respondError(w http.ResponseWriter, err error) {
	var (
		validationErr *utils.ValidationError
		gatewayErr    *utils.GatewayError
		notFoundErr   *utils.NotFoundError
		forbiddenErr  *utils.ForbiddenError
	)

	status := http.StatusInternalServerError
	message := "внутренняя ошибка сервера"

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Message
	case errors.As(err, &gatewayErr):
		status = http.StatusBadRequest
		message = gatewayErr.Message
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		message = notFoundErr.Message
	case errors.As(err, &forbiddenErr):
		status = http.StatusForbidden
		message = forbiddenErr.Message
	default:
		utils.LogError("Необработанная ошибка: %v", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// validateStruct валидирует DTO и возвращает ошибки валидации
func validateStruct(validate *validator.Validate, dto interface{}) error {
	if err := validate.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "min":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать минимум "+e.Param()+" символов")
			case "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать максимум "+e.Param()+" символов")
			case "email":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть корректным email")
			case "url":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть корректной ссылкой")
			default:
				errorMessages = append(errorMessages, "поле "+e.Field()+" заполнено неверно")
			}
		}
		return utils.NewValidationError(strings.Join(errorMessages, "; "))
	}
	return nil
}

// resolveAccess определяет права вызывающего пользователя из контекста запроса
func resolveAccess(r *http.Request, accessService *services.AccessService) (*services.Access, error) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		return nil, errors.New("user_id not found in context")
	}
	return accessService.Resolve(userID)
}
