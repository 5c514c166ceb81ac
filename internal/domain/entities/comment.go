package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCommentTarget = errors.New("comment must reference exactly one of question or answer")

// Comment is attached to either a question or an answer, never both
type Comment struct {
	ID         uuid.UUID     `json:"id"`
	Content    string        `json:"content"`
	AuthorID   uuid.UUID     `json:"authorId"`
	QuestionID uuid.NullUUID `json:"questionId"`
	AnswerID   uuid.NullUUID `json:"answerId"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ValidateTarget enforces the single-parent invariant.
func (c *Comment) ValidateTarget() error {
	if c.QuestionID.Valid == c.AnswerID.Valid {
		return ErrCommentTarget
	}
	return nil
}

// CreateCommentInput represents input for posting a comment
type CreateCommentInput struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// CommentFilter scopes a comment listing. A nil field is not filtered on.
type CommentFilter struct {
	QuestionID *uuid.UUID
	AnswerID   *uuid.UUID
}

// Matches reports whether c passes the filter.
func (f CommentFilter) Matches(c *Comment) bool {
	if f.QuestionID != nil && (!c.QuestionID.Valid || c.QuestionID.UUID != *f.QuestionID) {
		return false
	}
	if f.AnswerID != nil && (!c.AnswerID.Valid || c.AnswerID.UUID != *f.AnswerID) {
		return false
	}
	return true
}
