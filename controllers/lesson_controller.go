package controllers

import (
	"encoding/json"
	"net/http"

	"eduProject/services"
	"eduProject/utils"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Параметры пагинации уроков
const (
	lessonPageSize    = 10
	lessonMaxPageSize = 50
)

// LessonController обрабатывает запросы, связанные с уроками
type LessonController struct {
	lessonService *services.LessonService
	accessService *services.AccessService
	validate      *validator.Validate
}

// NewLessonController создает новый экземпляр LessonController
func NewLessonController(db *gorm.DB, notifications services.NotificationProducer) *LessonController {
	return &LessonController{
		lessonService: services.NewLessonService(db, notifications),
		accessService: services.NewAccessService(db),
		validate:      validator.New(),
	}
}

// CreateLesson обрабатывает запрос на создание урока
func (c *LessonController) CreateLesson(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateStruct(c.validate, req); err != nil {
		respondError(w, err)
		return
	}

	lesson, err := c.lessonService.Create(access, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, lesson)
}

// GetLessons обрабатывает запрос на получение списка уроков
func (c *LessonController) GetLessons(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	pagination := utils.PaginationFromQuery(r.URL.Query(), lessonPageSize, lessonMaxPageSize)

	lessons, count, err := c.lessonService.List(access, pagination)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, utils.PageResponse{Count: count, Results: lessons})
}

// GetLesson обрабатывает запрос на получение урока по ID
func (c *LessonController) GetLesson(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, utils.NewValidationError("неверный формат идентификатора"))
		return
	}

	lesson, err := c.lessonService.GetByID(access, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lesson)
}

// UpdateLesson обрабатывает запрос на обновление урока
func (c *LessonController) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, utils.NewValidationError("неверный формат идентификатора"))
		return
	}

	var req services.UpdateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateStruct(c.validate, req); err != nil {
		respondError(w, err)
		return
	}

	lesson, err := c.lessonService.Update(access, id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lesson)
}

// DeleteLesson обрабатывает запрос на удаление урока
func (c *LessonController) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, utils.NewValidationError("неверный формат идентификатора"))
		return
	}

	if err := c.lessonService.Delete(access, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
