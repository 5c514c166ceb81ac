package handlers

import (
	"context"
	"net/http"

	"devqa.backend/internal/domain/entities"
	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnswerService is the answer workflow behind the endpoints
type AnswerService interface {
	CreateAnswer(ctx context.Context, authorID, questionID uuid.UUID, input *entities.CreateAnswerInput) (*entities.Answer, error)
	ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*entities.Answer, error)
	VoteAnswer(ctx context.Context, id uuid.UUID, direction entities.VoteDirection) (*entities.Answer, error)
}

// AnswerHandler handles answer endpoints
type AnswerHandler struct {
	answerService AnswerService
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerService AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

// ListAnswers lists the answers of a question
// GET /api/questions/:id/answers
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	questionID, ok := pathID(c, "question")
	if !ok {
		return
	}

	answers, err := h.answerService.ListAnswers(c.Request.Context(), questionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, answers)
}

// CreateAnswer answers a question
// POST /api/questions/:id/answers
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	author, ok := authorID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "question")
	if !ok {
		return
	}

	var input entities.CreateAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	answer, err := h.answerService.CreateAnswer(c.Request.Context(), author, questionID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, answer)
}

// VoteAnswer casts an up or down vote
// POST /api/answers/:id/vote
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	id, ok := pathID(c, "answer")
	if !ok {
		return
	}
	direction, ok := bindVote(c)
	if !ok {
		return
	}

	answer, err := h.answerService.VoteAnswer(c.Request.Context(), id, direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, answer)
}
