package models

import (
	"time"
)

// Course представляет курс
type Course struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"`
	Title         string         `gorm:"column:title;not null;size:200"`
	Description   string         `gorm:"column:description;type:text"`
	Preview       string         `gorm:"column:preview;size:255"`
	OwnerID       uint           `gorm:"column:owner_id;not null;index"`
	Owner         User           `gorm:"foreignKey:OwnerID;references:ID"`
	Lessons       []Lesson       `gorm:"foreignKey:CourseID"`
	Subscriptions []Subscription `gorm:"foreignKey:CourseID"`
	CreatedAt     time.Time      `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Course) TableName() string {
	return "courses"
}
