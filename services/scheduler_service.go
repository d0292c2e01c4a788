package services

import (
	"time"

	"eduProject/models"
	"eduProject/utils"
	"gorm.io/gorm"
)

const (
	// Период проверки неактивных пользователей
	inactiveCheckInterval = 24 * time.Hour
	// Срок неактивности, после которого пользователь блокируется
	inactiveThreshold = 30 * 24 * time.Hour
)

// UserSchedulerService предоставляет методы для автоматической блокировки
// пользователей, которые давно не заходили
type UserSchedulerService struct {
	db *gorm.DB
}

// NewUserSchedulerService создает новый экземпляр UserSchedulerService
func NewUserSchedulerService(db *gorm.DB) *UserSchedulerService {
	return &UserSchedulerService{db: db}
}

// Start запускает планировщик блокировки неактивных пользователей
func (s *UserSchedulerService) Start() {
	ticker := time.NewTicker(inactiveCheckInterval)
	go func() {
		for range ticker.C {
			if err := s.blockInactiveUsers(); err != nil {
				utils.LogError("Ошибка при блокировке неактивных пользователей: %v", err)
			}
		}
	}()
}

// blockInactiveUsers блокирует пользователей, не заходивших более месяца
func (s *UserSchedulerService) blockInactiveUsers() error {
	threshold := time.Now().Add(-inactiveThreshold)

	result := s.db.Model(&models.User{}).
		Where("last_login < ? AND is_active = ?", threshold, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		utils.LogInfo("Заблокировано %d неактивных пользователей", result.RowsAffected)
	}

	return nil
}
