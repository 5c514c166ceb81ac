package handlers

import (
	"context"
	"net/http"
	"strconv"

	"devqa.backend/internal/domain/entities"
	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// List size headers
const (
	TotalCountHeader = "X-Total-Count"
	TotalPagesHeader = "X-Total-Pages"
)

// QuestionService is the question workflow behind the endpoints
type QuestionService interface {
	CreateQuestion(ctx context.Context, authorID uuid.UUID, input *entities.CreateQuestionInput) (*entities.Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*entities.Question, error)
	ListQuestions(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Question, int64, error)
	VoteQuestion(ctx context.Context, id uuid.UUID, direction entities.VoteDirection) (*entities.Question, error)
}

// QuestionHandler handles question endpoints
type QuestionHandler struct {
	questionService QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions lists questions oldest first
// GET /api/questions?page=&limit=
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var query utils.PaginationParams
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}
	pagination := utils.GetPaginationParams(query.Page, query.Limit)

	questions, total, err := h.questionService.ListQuestions(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := utils.CalculateMeta(total, pagination.Page, pagination.Limit)
	c.Header(TotalCountHeader, strconv.FormatInt(meta.TotalCount, 10))
	c.Header(TotalPagesHeader, strconv.Itoa(meta.TotalPages))
	response.Success(c, http.StatusOK, questions)
}

// GetQuestion gets a question by ID
// GET /api/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c, "question")
	if !ok {
		return
	}

	question, err := h.questionService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, question)
}

// CreateQuestion posts a question
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	author, ok := authorID(c)
	if !ok {
		return
	}

	var input entities.CreateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), author, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, question)
}

// VoteQuestion casts an up or down vote
// POST /api/questions/:id/vote
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	id, ok := pathID(c, "question")
	if !ok {
		return
	}
	direction, ok := bindVote(c)
	if !ok {
		return
	}

	question, err := h.questionService.VoteQuestion(c.Request.Context(), id, direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, question)
}
