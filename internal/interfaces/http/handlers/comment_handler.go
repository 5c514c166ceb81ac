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

// CommentService is the comment workflow behind the endpoints
type CommentService interface {
	CommentOnQuestion(ctx context.Context, authorID, questionID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error)
	CommentOnAnswer(ctx context.Context, authorID, answerID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error)
	ListQuestionComments(ctx context.Context, questionID uuid.UUID) ([]*entities.Comment, error)
	ListAnswerComments(ctx context.Context, answerID uuid.UUID) ([]*entities.Comment, error)
}

// CommentHandler handles comment endpoints on questions and answers
type CommentHandler struct {
	commentService CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListQuestionComments GET /api/questions/:id/comments
func (h *CommentHandler) ListQuestionComments(c *gin.Context) {
	id, ok := pathID(c, "question")
	if !ok {
		return
	}
	comments, err := h.commentService.ListQuestionComments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments)
}

// ListAnswerComments GET /api/answers/:id/comments
func (h *CommentHandler) ListAnswerComments(c *gin.Context) {
	id, ok := pathID(c, "answer")
	if !ok {
		return
	}
	comments, err := h.commentService.ListAnswerComments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments)
}

// CommentOnQuestion POST /api/questions/:id/comments
func (h *CommentHandler) CommentOnQuestion(c *gin.Context) {
	h.create(c, "question", h.commentService.CommentOnQuestion)
}

// CommentOnAnswer POST /api/answers/:id/comments
func (h *CommentHandler) CommentOnAnswer(c *gin.Context) {
	h.create(c, "answer", h.commentService.CommentOnAnswer)
}

type createCommentFunc func(ctx context.Context, authorID, parentID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error)

func (h *CommentHandler) create(c *gin.Context, parent string, createFn createCommentFunc) {
	author, ok := authorID(c)
	if !ok {
		return
	}
	parentID, ok := pathID(c, parent)
	if !ok {
		return
	}

	var input entities.CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	comment, err := createFn(c.Request.Context(), author, parentID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment)
}
