package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserRole представляет роль пользователя
type UserRole string

const (
	RoleMember    UserRole = "member"    // Обычный пользователь
	RoleModerator UserRole = "moderator" // Модератор
)

type User struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	Email     string     `gorm:"column:email;unique;not null;size:100;index"`
	Password  string     `gorm:"column:password;not null;size:100"`
	Phone     string     `gorm:"column:phone;size:15"`
	City      string     `gorm:"column:city;size:100"`
	Avatar    string     `gorm:"column:avatar;size:255"`
	Role      UserRole   `gorm:"column:role;type:varchar(20);not null;default:'member'"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	LastLogin *time.Time `gorm:"column:last_login"`
	CreatedAt time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}

// IsModerator проверяет, является ли пользователь модератором
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// BeforeCreate хук для валидации перед созданием
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if len(u.Email) < 3 || len(u.Email) > 100 {
		return errors.New("email must be between 3 and 100 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("email must contain @")
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	return nil
}
