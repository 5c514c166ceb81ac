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

// AnswerUsecase handles answer business logic
type AnswerUsecase struct {
	questionRepo repositories.QuestionRepository
	answerRepo   repositories.AnswerRepository
	uow          repositories.UnitOfWork
	now          func() time.Time
}

// NewAnswerUsecase creates a new answer usecase
func NewAnswerUsecase(
	questionRepo repositories.QuestionRepository,
	answerRepo repositories.AnswerRepository,
	uow repositories.UnitOfWork,
) *AnswerUsecase {
	return &AnswerUsecase{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		uow:          uow,
		now:          time.Now,
	}
}

// CreateAnswer posts an answer to an existing question
func (u *AnswerUsecase) CreateAnswer(ctx context.Context, authorID, questionID uuid.UUID, input *entities.CreateAnswerInput) (*entities.Answer, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainerrors.BadRequest("content must not be blank")
	}

	answer := &entities.Answer{
		ID:         utils.GenerateUUIDv7(),
		Content:    content,
		QuestionID: questionID,
		AuthorID:   authorID,
		MediaURLs:  append([]string{}, input.MediaURLs...),
		CreatedAt:  u.now(),
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.questionRepo.GetByID(txCtx, questionID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("question not found")
			}
			return err
		}
		return u.answerRepo.Create(txCtx, answer)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Answer created",
		zap.String("answer_id", answer.ID.String()),
		zap.String("question_id", questionID.String()))
	return answer, nil
}

// ListAnswers lists the answers of a question oldest first. An unknown
// question yields an empty list.
func (u *AnswerUsecase) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*entities.Answer, error) {
	return u.answerRepo.ListByQuestion(ctx, questionID)
}

// VoteAnswer applies one up or down vote and returns the updated answer
func (u *AnswerUsecase) VoteAnswer(ctx context.Context, id uuid.UUID, direction entities.VoteDirection) (*entities.Answer, error) {
	if !direction.Valid() {
		return nil, domainerrors.BadRequest("vote value must be 'up' or 'down'")
	}

	answer, err := u.answerRepo.AddVotes(ctx, id, direction.Delta())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("answer not found")
		}
		return nil, err
	}
	observability.RecordVote("answer", string(direction))
	return answer, nil
}
