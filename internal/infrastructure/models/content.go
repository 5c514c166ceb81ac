package models

import (
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(300);not null"`
	Content   string    `gorm:"type:text;not null"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Votes     int       `gorm:"not null;default:0"`
	MediaURLs []string  `gorm:"column:media_urls;type:text;serializer:json;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Question) TableName() string {
	return "questions"
}

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Content    string    `gorm:"type:text;not null"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Votes      int       `gorm:"not null;default:0"`
	MediaURLs  []string  `gorm:"column:media_urls;type:text;serializer:json;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (Answer) TableName() string {
	return "answers"
}

// Comment carries a table-level check so a row can never reference both
// parents or neither.
type Comment struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Content    string        `gorm:"type:text;not null"`
	AuthorID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	QuestionID uuid.NullUUID `gorm:"type:uuid;index;check:chk_comments_single_parent,(question_id IS NULL) <> (answer_id IS NULL)"`
	AnswerID   uuid.NullUUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time     `gorm:"not null"`
}

func (Comment) TableName() string {
	return "comments"
}
