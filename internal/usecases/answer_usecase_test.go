package usecases_test

import (
	"context"
	"testing"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnswerUsecase_CreateAnswer(t *testing.T) {
	questions := new(MockQuestionRepository)
	answers := new(MockAnswerRepository)
	uow := new(MockUnitOfWork)
	uc := usecases.NewAnswerUsecase(questions, answers, uow)
	ctx := context.Background()
	questionID := uuid.New()
	author := uuid.New()

	uow.On("Do", ctx, mock.Anything).Return(nil)
	questions.On("GetByID", ctx, questionID).Return(&entities.Question{ID: questionID}, nil).Once()
	answers.On("Create", ctx, mock.AnythingOfType("*entities.Answer")).Return(nil).Once()

	a, err := uc.CreateAnswer(ctx, author, questionID, &entities.CreateAnswerInput{Content: "Use close()"})
	require.NoError(t, err)
	assert.Equal(t, questionID, a.QuestionID)
	assert.Equal(t, author, a.AuthorID)
	assert.Equal(t, []string{}, a.MediaURLs)
	uow.AssertExpectations(t)
	answers.AssertExpectations(t)
}

func TestAnswerUsecase_CreateAnswer_UnknownQuestion(t *testing.T) {
	questions := new(MockQuestionRepository)
	answers := new(MockAnswerRepository)
	uow := new(MockUnitOfWork)
	uc := usecases.NewAnswerUsecase(questions, answers, uow)
	ctx := context.Background()
	questionID := uuid.New()

	uow.On("Do", ctx, mock.Anything).Return(nil)
	questions.On("GetByID", ctx, questionID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.CreateAnswer(ctx, uuid.New(), questionID, &entities.CreateAnswerInput{Content: "orphan"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	answers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAnswerUsecase_CreateAnswer_Invalid(t *testing.T) {
	uc := usecases.NewAnswerUsecase(new(MockQuestionRepository), new(MockAnswerRepository), new(MockUnitOfWork))

	_, err := uc.CreateAnswer(context.Background(), uuid.New(), uuid.New(), &entities.CreateAnswerInput{Content: ""})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAnswerUsecase_ListAnswers(t *testing.T) {
	answers := new(MockAnswerRepository)
	uc := usecases.NewAnswerUsecase(new(MockQuestionRepository), answers, new(MockUnitOfWork))
	ctx := context.Background()
	questionID := uuid.New()

	answers.On("ListByQuestion", ctx, questionID).Return([]*entities.Answer{}, nil).Once()
	got, err := uc.ListAnswers(ctx, questionID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnswerUsecase_VoteAnswer(t *testing.T) {
	answers := new(MockAnswerRepository)
	uc := usecases.NewAnswerUsecase(new(MockQuestionRepository), answers, new(MockUnitOfWork))
	ctx := context.Background()
	id := uuid.New()

	answers.On("AddVotes", ctx, id, -1).Return(&entities.Answer{ID: id, Votes: -1}, nil).Once()
	a, err := uc.VoteAnswer(ctx, id, entities.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, a.Votes)

	_, err = uc.VoteAnswer(ctx, id, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	missing := uuid.New()
	answers.On("AddVotes", ctx, missing, 1).Return(nil, domainerrors.ErrNotFound).Once()
	_, err = uc.VoteAnswer(ctx, missing, entities.VoteUp)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
