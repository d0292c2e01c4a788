package models

import (
	"time"
)

// Lesson представляет урок курса
type Lesson struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"column:title;not null;size:200"`
	Description string    `gorm:"column:description;type:text"`
	Preview     string    `gorm:"column:preview;size:255"`
	VideoLink   string    `gorm:"column:video_link;size:255"`
	CourseID    uint      `gorm:"column:course_id;not null;index"`
	Course      Course    `gorm:"foreignKey:CourseID;references:ID"`
	OwnerID     uint      `gorm:"column:owner_id;not null;index"`
	Owner       User      `gorm:"foreignKey:OwnerID;references:ID"`
	CreatedAt   time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Lesson) TableName() string {
	return "lessons"
}
