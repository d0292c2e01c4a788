package services

import (
	"errors"
	"time"

	"eduProject/models"
	"eduProject/utils"
	"gorm.io/gorm"
)

// CourseDTO представляет курс в ответе API
type CourseDTO struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Preview      string      `json:"preview,omitempty"`
	OwnerEmail   string      `json:"owner_email"`
	LessonsCount int         `json:"lessons_count"`
	Lessons      []LessonDTO `json:"lessons"`
	IsSubscribed bool        `json:"is_subscribed"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

// CreateCourseRequest представляет данные для создания курса
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"omitempty"`
	Preview     string `json:"preview" validate:"omitempty,max=255,url"`
}

// UpdateCourseRequest представляет данные для обновления курса
type UpdateCourseRequest struct {
	Title       string `json:"title" validate:"omitempty,min=2,max=200"`
	Description string `json:"description" validate:"omitempty"`
	Preview     string `json:"preview" validate:"omitempty,max=255,url"`
}

// CourseService предоставляет методы для работы с курсами
type CourseService struct {
	db            *gorm.DB
	notifications NotificationProducer
}

// NewCourseService создает новый экземпляр CourseService
func NewCourseService(db *gorm.DB, notifications NotificationProducer) *CourseService {
	return &CourseService{
		db:            db,
		notifications: notifications,
	}
}

// visibleCourses возвращает запрос с учетом видимости:
// модераторы видят все курсы, обычные пользователи - только свои
func (s *CourseService) visibleCourses(access *Access) *gorm.DB {
	if access.IsModerator {
		return s.db.Model(&models.Course{})
	}
	return s.db.Model(&models.Course{}).Where("owner_id = ?", access.UserID)
}

// Create создает новый курс
func (s *CourseService) Create(access *Access, req CreateCourseRequest) (*CourseDTO, error) {
	// Модераторы не могут создавать курсы
	if access.IsModerator {
		return nil, utils.NewForbiddenError("модератор не может создавать курсы")
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Preview:     req.Preview,
		OwnerID:     access.UserID,
	}

	if err := s.db.Create(course).Error; err != nil {
		return nil, errors.New("не удалось создать курс")
	}

	return s.GetByID(access, course.ID)
}

// List возвращает список курсов с учетом видимости
func (s *CourseService) List(access *Access, p utils.Pagination) ([]CourseDTO, int64, error) {
	query := s.visibleCourses(access)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете курсов")
	}

	var courses []models.Course
	if err := query.
		Preload("Owner").
		Preload("Lessons").
		Order("id ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&courses).Error; err != nil {
		return nil, 0, errors.New("ошибка при получении списка курсов")
	}

	// Загружаем подписки пользователя одним запросом
	subscribed, err := s.subscribedCourseIDs(access.UserID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]CourseDTO, 0, len(courses))
	for _, course := range courses {
		result = append(result, courseToDTO(&course, subscribed[course.ID]))
	}

	return result, count, nil
}

// GetByID возвращает курс по ID с учетом видимости
func (s *CourseService) GetByID(access *Access, id uint) (*CourseDTO, error) {
	course, err := s.findVisible(access, id)
	if err != nil {
		return nil, err
	}

	var subscription models.Subscription
	isSubscribed := s.db.Where("user_id = ? AND course_id = ?", access.UserID, id).
		First(&subscription).Error == nil

	dto := courseToDTO(course, isSubscribed)
	return &dto, nil
}

// Update обновляет курс и уведомляет подписчиков
func (s *CourseService) Update(access *Access, id uint, req UpdateCourseRequest) (*CourseDTO, error) {
	course, err := s.findVisible(access, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Preview != "" {
		course.Preview = req.Preview
	}
	course.UpdatedAt = time.Now()

	if err := s.db.Save(course).Error; err != nil {
		return nil, errors.New("не удалось обновить курс")
	}

	// Уведомление подписчиков не блокирует запрос
	s.notifications.Enqueue(NotificationTask{
		Type:     NotificationCourseUpdated,
		CourseID: course.ID,
	})

	return s.GetByID(access, course.ID)
}

// Delete удаляет курс. Удалять курсы может только владелец.
func (s *CourseService) Delete(access *Access, id uint) error {
	if access.IsModerator {
		return utils.NewForbiddenError("модератор не может удалять курсы")
	}

	course, err := s.findVisible(access, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(course).Error; err != nil {
		return errors.New("не удалось удалить курс")
	}

	return nil
}

// findVisible ищет курс с учетом видимости. Недоступный курс
// неотличим от несуществующего.
func (s *CourseService) findVisible(access *Access, id uint) (*models.Course, error) {
	var course models.Course
	if err := s.visibleCourses(access).
		Preload("Owner").
		Preload("Lessons").
		First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("курс не найден")
		}
		return nil, errors.New("ошибка при поиске курса")
	}
	return &course, nil
}

// subscribedCourseIDs возвращает ID курсов, на которые подписан пользователь
func (s *CourseService) subscribedCourseIDs(userID uint) (map[uint]bool, error) {
	var subscriptions []models.Subscription
	if err := s.db.Where("user_id = ?", userID).Find(&subscriptions).Error; err != nil {
		return nil, errors.New("ошибка при получении подписок")
	}

	result := make(map[uint]bool, len(subscriptions))
	for _, sub := range subscriptions {
		result[sub.CourseID] = true
	}
	return result, nil
}

// courseToDTO конвертирует курс в DTO
func courseToDTO(course *models.Course, isSubscribed bool) CourseDTO {
	lessons := make([]LessonDTO, 0, len(course.Lessons))
	for _, lesson := range course.Lessons {
		lessons = append(lessons, lessonToDTO(&lesson))
	}

	return CourseDTO{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		Preview:      course.Preview,
		OwnerEmail:   course.Owner.Email,
		LessonsCount: len(course.Lessons),
		Lessons:      lessons,
		IsSubscribed: isSubscribed,
		CreatedAt:    course.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    course.UpdatedAt.Format(time.RFC3339),
	}
}
