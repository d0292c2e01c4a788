package services

import (
	"errors"

	"eduProject/models"
	"eduProject/utils"
	"gorm.io/gorm"
)

// SubscriptionService предоставляет методы для работы с подписками на курсы
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService создает новый экземпляр SubscriptionService
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Toggle переключает подписку пользователя на курс.
// Возвращает true, если подписка создана, и false, если удалена.
func (s *SubscriptionService) Toggle(userID, courseID uint) (bool, error) {
	// Проверяем существование курса
	var course models.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, utils.NewNotFoundError("курс не найден")
		}
		return false, errors.New("ошибка при поиске курса")
	}

	// Ищем существующую подписку
	var subscription models.Subscription
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&subscription).Error

	if err == nil {
		// Подписка есть - удаляем
		if err := s.db.Delete(&subscription).Error; err != nil {
			return false, errors.New("не удалось удалить подписку")
		}
		return false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, errors.New("ошибка при поиске подписки")
	}

	// Подписки нет - создаем
	subscription = models.Subscription{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.db.Create(&subscription).Error; err != nil {
		return false, errors.New("не удалось создать подписку")
	}

	return true, nil
}
