package repositories

import (
	"context"

	"devqa.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// QuestionRepository defines question data operations
type QuestionRepository interface {
	Create(ctx context.Context, question *entities.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Question, error)
	// List returns questions oldest first. A limit of 0 returns everything.
	List(ctx context.Context, limit, offset int) ([]*entities.Question, int64, error)
	// AddVotes applies delta to the stored counter atomically and returns the updated row.
	AddVotes(ctx context.Context, id uuid.UUID, delta int) (*entities.Question, error)
}

// AnswerRepository defines answer data operations
type AnswerRepository interface {
	Create(ctx context.Context, answer *entities.Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Answer, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*entities.Answer, error)
	AddVotes(ctx context.Context, id uuid.UUID, delta int) (*entities.Answer, error)
}

// CommentRepository defines comment data operations
type CommentRepository interface {
	// Create rejects comments that do not reference exactly one parent.
	Create(ctx context.Context, comment *entities.Comment) error
	List(ctx context.Context, filter entities.CommentFilter) ([]*entities.Comment, error)
}
