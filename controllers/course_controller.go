package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eduProject/services"
	"eduProject/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Параметры пагинации курсов
const (
	coursePageSize    = 5
	courseMaxPageSize = 20
)

// CourseController обрабатывает запросы, связанные с курсами
type CourseController struct {
	courseService *services.CourseService
	accessService *services.AccessService
	validate      *validator.Validate
}

// NewCourseController создает новый экземпляр CourseController
func NewCourseController(db *gorm.DB, notifications services.NotificationProducer) *CourseController {
	return &CourseController{
		courseService: services.NewCourseService(db, notifications),
		accessService: services.NewAccessService(db),
		validate:      validator.New(),
	}
}

// CreateCourse обрабатывает запрос на создание курса
func (c *CourseController) CreateCourse(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидируем запрос
	if err := validateStruct(c.validate, req); err != nil {
		respondError(w, err)
		return
	}

	course, err := c.courseService.Create(access, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, course)
}

// GetCourses обрабатывает запрос на получение списка курсов
func (c *CourseController) GetCourses(w http.ResponseWriter, r *http.Request) {
	access, err := resolveAccess(r, c.accessService)
	if err != nil {
		respondError(w, err)
		return
	}

	pagination := utils.PaginationFromQuery(r.URL.Query(), coursePageSize, courseMaxPageSize)

	courses, count, err := c.courseService.List(access, pagination)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, utils.PageResponse{Count: count, Results: courses})
}

// GetCourse обрабатывает запрос на получение курса по ID
func (c *CourseController) GetCourse(w http.ResponseWriter, r *http.Request) {
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

	course, err := c.courseService.GetByID(access, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, course)
}

// UpdateCourse обрабатывает запрос на обновление курса
func (c *CourseController) UpdateCourse(w http.ResponseWriter, r *http.Request) {
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

	var req services.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateStruct(c.validate, req); err != nil {
		respondError(w, err)
		return
	}

	course, err := c.courseService.Update(access, id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, course)
}

// DeleteCourse обрабатывает запрос на удаление курса
func (c *CourseController) DeleteCourse(w http.ResponseWriter, r *http.Request) {
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

	if err := c.courseService.Delete(access, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID извлекает числовой идентификатор из пути запроса
func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
