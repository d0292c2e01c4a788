package services

import (
	"errors"
	"net/url"
	"time"

	"eduProject/models"
	"eduProject/utils"
	"gorm.io/gorm"
)

// LessonDTO представляет урок в ответе API
type LessonDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Preview     string `json:"preview,omitempty"`
	VideoLink   string `json:"video_link,omitempty"`
	CourseID    uint   `json:"course_id"`
	OwnerEmail  string `json:"owner_email"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateLessonRequest представляет данные для создания урока
type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"omitempty"`
	Preview     string `json:"preview" validate:"omitempty,max=255,url"`
	VideoLink   string `json:"video_link" validate:"omitempty,max=255,url"`
	CourseID    uint   `json:"course_id" validate:"required"`
}

// UpdateLessonRequest представляет данные для обновления урока
type UpdateLessonRequest struct {
	Title       string `json:"title" validate:"omitempty,min=2,max=200"`
	Description string `json:"description" validate:"omitempty"`
	Preview     string `json:"preview" validate:"omitempty,max=255,url"`
	VideoLink   string `json:"video_link" validate:"omitempty,max=255,url"`
}

// LessonService предоставляет методы для работы с уроками
type LessonService struct {
	db            *gorm.DB
	notifications NotificationProducer
}

// NewLessonService создает новый экземпляр LessonService
func NewLessonService(db *gorm.DB, notifications NotificationProducer) *LessonService {
	return &LessonService{
		db:            db,
		notifications: notifications,
	}
}

// ValidateVideoLink проверяет, что ссылка на видео ведет только на youtube.com
func ValidateVideoLink(link string) error {
	if link == "" {
		return nil
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return utils.NewValidationError("неверный формат ссылки на видео")
	}

	if parsed.Host != "youtube.com" && parsed.Host != "www.youtube.com" {
		return utils.NewValidationError("разрешены только ссылки на youtube.com")
	}

	return nil
}

// visibleLessons возвращает запрос с учетом видимости:
// модераторы видят все уроки, обычные пользователи - только свои
func (s *LessonService) visibleLessons(access *Access) *gorm.DB {
	if access.IsModerator {
		return s.db.Model(&models.Lesson{})
	}
	return s.db.Model(&models.Lesson{}).Where("owner_id = ?", access.UserID)
}

// Create создает новый урок и уведомляет подписчиков курса
func (s *LessonService) Create(access *Access, req CreateLessonRequest) (*LessonDTO, error) {
	// Модераторы не могут создавать уроки
	if access.IsModerator {
		return nil, utils.NewForbiddenError("модератор не может создавать уроки")
	}

	if err := ValidateVideoLink(req.VideoLink); err != nil {
		return nil, err
	}

	// Проверяем существование курса
	var course models.Course
	if err := s.db.First(&course, req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("курс не найден")
		}
		return nil, errors.New("ошибка при поиске курса")
	}

	lesson := &models.Lesson{
		Title:       req.Title,
		Description: req.Description,
		Preview:     req.Preview,
		VideoLink:   req.VideoLink,
		CourseID:    req.CourseID,
		OwnerID:     access.UserID,
	}

	if err := s.db.Create(lesson).Error; err != nil {
		return nil, errors.New("не удалось создать урок")
	}

	// Уведомление подписчиков не блокирует запрос
	s.notifications.Enqueue(NotificationTask{
		Type:     NotificationLessonAdded,
		CourseID: req.CourseID,
	})

	return s.GetByID(access, lesson.ID)
}

// List возвращает список уроков с учетом видимости
func (s *LessonService) List(access *Access, p utils.Pagination) ([]LessonDTO, int64, error) {
	query := s.visibleLessons(access)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете уроков")
	}

	var lessons []models.Lesson
	if err := query.
		Preload("Owner").
		Order("id ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&lessons).Error; err != nil {
		return nil, 0, errors.New("ошибка при получении списка уроков")
	}

	result := make([]LessonDTO, 0, len(lessons))
	for _, lesson := range lessons {
		result = append(result, lessonToDTO(&lesson))
	}

	return result, count, nil
}

// GetByID возвращает урок по ID с учетом видимости
func (s *LessonService) GetByID(access *Access, id uint) (*LessonDTO, error) {
	lesson, err := s.findVisible(access, id)
	if err != nil {
		return nil, err
	}

	dto := lessonToDTO(lesson)
	return &dto, nil
}

// Update обновляет урок
func (s *LessonService) Update(access *Access, id uint, req UpdateLessonRequest) (*LessonDTO, error) {
	if err := ValidateVideoLink(req.VideoLink); err != nil {
		return nil, err
	}

	lesson, err := s.findVisible(access, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		lesson.Title = req.Title
	}
	if req.Description != "" {
		lesson.Description = req.Description
	}
	if req.Preview != "" {
		lesson.Preview = req.Preview
	}
	if req.VideoLink != "" {
		lesson.VideoLink = req.VideoLink
	}
	lesson.UpdatedAt = time.Now()

	if err := s.db.Save(lesson).Error; err != nil {
		return nil, errors.New("не удалось обновить урок")
	}

	return s.GetByID(access, lesson.ID)
}

// Delete удаляет урок. Удалять уроки может только владелец.
func (s *LessonService) Delete(access *Access, id uint) error {
	if access.IsModerator {
		return utils.NewForbiddenError("модератор не может удалять уроки")
	}

	lesson, err := s.findVisible(access, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(lesson).Error; err != nil {
		return errors.New("не удалось удалить урок")
	}

	return nil
}

// findVisible ищет урок с учетом видимости. Недоступный урок
// неотличим от несуществующего.
func (s *LessonService) findVisible(access *Access, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.visibleLessons(access).
		Preload("Owner").
		First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("урок не найден")
		}
		return nil, errors.New("ошибка при поиске урока")
	}
	return &lesson, nil
}

// lessonToDTO конвертирует урок в DTO
func lessonToDTO(lesson *models.Lesson) LessonDTO {
	return LessonDTO{
		ID:          lesson.ID,
		Title:       lesson.Title,
		Description: lesson.Description,
		Preview:     lesson.Preview,
		VideoLink:   lesson.VideoLink,
		CourseID:    lesson.CourseID,
		OwnerEmail:  lesson.Owner.Email,
		CreatedAt:   lesson.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   lesson.UpdatedAt.Format(time.RFC3339),
	}
}
