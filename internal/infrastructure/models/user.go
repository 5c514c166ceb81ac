package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email                   string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username                string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash            string     `gorm:"type:varchar(255);not null"`
	Qualifications          *string    `gorm:"type:text"`
	Biography               *string    `gorm:"type:text"`
	IsEmailVerified         bool       `gorm:"not null;default:false"`
	VerificationToken       *string    `gorm:"type:varchar(128);uniqueIndex"`
	VerificationTokenExpiry *time.Time
	CreatedAt               time.Time `gorm:"not null"`
	UpdatedAt               time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}
