package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/domain/repositories"
	"devqa.backend/internal/observability"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/logger"
	"devqa.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuestionUsecase handles question business logic
type QuestionUsecase struct {
	questionRepo repositories.QuestionRepository
	now          func() time.Time
}

// NewQuestionUsecase creates a new question usecase
func NewQuestionUsecase(questionRepo repositories.QuestionRepository) *QuestionUsecase {
	return &QuestionUsecase{
		questionRepo: questionRepo,
		now:          time.Now,
	}
}

// CreateQuestion posts a question on behalf of authorID
func (u *QuestionUsecase) CreateQuestion(ctx context.Context, authorID uuid.UUID, input *entities.CreateQuestionInput) (*entities.Question, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, domainerrors.BadRequest("title and content must not be blank")
	}

	question := &entities.Question{
		ID:        utils.GenerateUUIDv7(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		MediaURLs: append([]string{}, input.MediaURLs...),
		CreatedAt: u.now(),
	}
	if err := u.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Question created",
		zap.String("question_id", question.ID.String()),
		zap.String("author_id", authorID.String()))
	return question, nil
}

// GetQuestion gets a question by ID
func (u *QuestionUsecase) GetQuestion(ctx context.Context, id uuid.UUID) (*entities.Question, error) {
	question, err := u.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("question not found")
		}
		return nil, err
	}
	return question, nil
}

// ListQuestions lists questions oldest first. A zero limit returns all of them.
func (u *QuestionUsecase) ListQuestions(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Question, int64, error) {
	return u.questionRepo.List(ctx, pagination.Limit, pagination.CalculateOffset())
}

// VoteQuestion applies one up or down vote and returns the updated question
func (u *QuestionUsecase) VoteQuestion(ctx context.Context, id uuid.UUID, direction entities.VoteDirection) (*entities.Question, error) {
	if !direction.Valid() {
		return nil, domainerrors.BadRequest("vote value must be 'up' or 'down'")
	}

	question, err := u.questionRepo.AddVotes(ctx, id, direction.Delta())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("question not found")
		}
		return nil, err
	}
	observability.RecordVote("question", string(direction))
	return question, nil
}
