package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/domain/repositories"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/utils"
	"github.com/google/uuid"
)

// CommentUsecase handles comments on questions and answers
type CommentUsecase struct {
	questionRepo repositories.QuestionRepository
	answerRepo   repositories.AnswerRepository
	commentRepo  repositories.CommentRepository
	uow          repositories.UnitOfWork
	now          func() time.Time
}

// NewCommentUsecase creates a new comment usecase
func NewCommentUsecase(
	questionRepo repositories.QuestionRepository,
	answerRepo repositories.AnswerRepository,
	commentRepo repositories.CommentRepository,
	uow repositories.UnitOfWork,
) *CommentUsecase {
	return &CommentUsecase{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		commentRepo:  commentRepo,
		uow:          uow,
		now:          time.Now,
	}
}

// CommentOnQuestion attaches a comment to a question
func (u *CommentUsecase) CommentOnQuestion(ctx context.Context, authorID, questionID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error) {
	comment, err := u.newComment(authorID, input)
	if err != nil {
		return nil, err
	}
	comment.QuestionID = uuid.NullUUID{UUID: questionID, Valid: true}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.questionRepo.GetByID(txCtx, questionID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("question not found")
			}
			return err
		}
		return u.commentRepo.Create(txCtx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CommentOnAnswer attaches a comment to an answer
func (u *CommentUsecase) CommentOnAnswer(ctx context.Context, authorID, answerID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error) {
	comment, err := u.newComment(authorID, input)
	if err != nil {
		return nil, err
	}
	comment.AnswerID = uuid.NullUUID{UUID: answerID, Valid: true}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.answerRepo.GetByID(txCtx, answerID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("answer not found")
			}
			return err
		}
		return u.commentRepo.Create(txCtx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (u *CommentUsecase) newComment(authorID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainerrors.BadRequest("content must not be blank")
	}
	return &entities.Comment{
		ID:        utils.GenerateUUIDv7(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: u.now(),
	}, nil
}

// ListQuestionComments lists comments attached directly to a question
func (u *CommentUsecase) ListQuestionComments(ctx context.Context, questionID uuid.UUID) ([]*entities.Comment, error) {
	return u.commentRepo.List(ctx, entities.CommentFilter{QuestionID: &questionID})
}

// ListAnswerComments lists comments attached to an answer
func (u *CommentUsecase) ListAnswerComments(ctx context.Context, answerID uuid.UUID) ([]*entities.Comment, error) {
	return u.commentRepo.List(ctx, entities.CommentFilter{AnswerID: &answerID})
}
