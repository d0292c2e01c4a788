package services

import (
	"errors"

	"eduProject/models"
	"eduProject/utils"
	"gorm.io/gorm"
)

// Access представляет права вызывающего пользователя.
// Роль определяется один раз на запрос и передается во все проверки доступа.
type Access struct {
	UserID      uint
	Email       string
	IsModerator bool
}

// AccessService определяет права пользователя
type AccessService struct {
	db *gorm.DB
}

// NewAccessService создает новый экземпляр AccessService
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// Resolve загружает пользователя и возвращает его права
func (s *AccessService) Resolve(userID uint) (*Access, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("пользователь не найден")
		}
		return nil, errors.New("ошибка при поиске пользователя")
	}

	if !user.IsActive {
		return nil, utils.NewForbiddenError("пользователь заблокирован")
	}

	return &Access{
		UserID:      user.ID,
		Email:       user.Email,
		IsModerator: user.IsModerator(),
	}, nil
}
