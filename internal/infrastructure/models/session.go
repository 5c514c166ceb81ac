package models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string    `gorm:"type:varchar(128);primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (Session) TableName() string {
	return "sessions"
}

// All lists every model for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &Question{}, &Answer{}, &Comment{}, &Session{}}
}
