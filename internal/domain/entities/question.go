package entities

import (
	"time"

	"github.com/google/uuid"
)

// Question is a titled post that answers and comments attach to
type Question struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  uuid.UUID `json:"authorId"`
	Votes     int       `json:"votes"`
	MediaURLs []string  `json:"mediaUrls"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateQuestionInput represents input for posting a question
type CreateQuestionInput struct {
	Title     string   `json:"title" binding:"required,max=300"`
	Content   string   `json:"content" binding:"required,max=30000"`
	MediaURLs []string `json:"mediaUrls" binding:"omitempty,max=10,dive,url"`
}

// Answer belongs to exactly one question
type Answer struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	QuestionID uuid.UUID `json:"questionId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Votes      int       `json:"votes"`
	MediaURLs  []string  `json:"mediaUrls"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateAnswerInput represents input for posting an answer
type CreateAnswerInput struct {
	Content   string   `json:"content" binding:"required,max=30000"`
	MediaURLs []string `json:"mediaUrls" binding:"omitempty,max=10,dive,url"`
}
