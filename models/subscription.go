package models

import (
	"time"
)

// Subscription представляет подписку пользователя на обновления курса
type Subscription struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_course"`
	User         User      `gorm:"foreignKey:UserID;references:ID"`
	CourseID     uint      `gorm:"column:course_id;not null;uniqueIndex:idx_user_course"`
	Course       Course    `gorm:"foreignKey:CourseID;references:ID"`
	SubscribedAt time.Time `gorm:"column:subscribed_at;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
