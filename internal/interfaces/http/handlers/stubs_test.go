package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devqa.backend/internal/domain/entities"
	"devqa.backend/internal/interfaces/http/middleware"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.UseWithGin()
}

type authServiceStub struct {
	registerFn      func(context.Context, *entities.RegisterInput) (*entities.User, error)
	loginFn         func(context.Context, *entities.LoginInput) (*entities.AuthResponse, error)
	logoutFn        func(context.Context, string) error
	verifyFn        func(context.Context, string) error
	resendFn        func(context.Context, string) error
	requestResetFn  func(context.Context, string) error
	resetPasswordFn func(context.Context, *entities.ResetPasswordInput) error
}

func (s *authServiceStub) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	return s.registerFn(ctx, input)
}
func (s *authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s *authServiceStub) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}
func (s *authServiceStub) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyFn(ctx, token)
}
func (s *authServiceStub) ResendVerification(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}
func (s *authServiceStub) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}
func (s *authServiceStub) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	return s.resetPasswordFn(ctx, input)
}

type questionServiceStub struct {
	createFn func(context.Context, uuid.UUID, *entities.CreateQuestionInput) (*entities.Question, error)
	getFn    func(context.Context, uuid.UUID) (*entities.Question, error)
	listFn   func(context.Context, utils.PaginationParams) ([]*entities.Question, int64, error)
	voteFn   func(context.Context, uuid.UUID, entities.VoteDirection) (*entities.Question, error)
}

func (s *questionServiceStub) CreateQuestion(ctx context.Context, authorID uuid.UUID, input *entities.CreateQuestionInput) (*entities.Question, error) {
	return s.createFn(ctx, authorID, input)
}
func (s *questionServiceStub) GetQuestion(ctx context.Context, id uuid.UUID) (*entities.Question, error) {
	return s.getFn(ctx, id)
}
func (s *questionServiceStub) ListQuestions(ctx context.Context, p utils.PaginationParams) ([]*entities.Question, int64, error) {
	return s.listFn(ctx, p)
}
func (s *questionServiceStub) VoteQuestion(ctx context.Context, id uuid.UUID, d entities.VoteDirection) (*entities.Question, error) {
	return s.voteFn(ctx, id, d)
}

type answerServiceStub struct {
	createFn func(context.Context, uuid.UUID, uuid.UUID, *entities.CreateAnswerInput) (*entities.Answer, error)
	listFn   func(context.Context, uuid.UUID) ([]*entities.Answer, error)
	voteFn   func(context.Context, uuid.UUID, entities.VoteDirection) (*entities.Answer, error)
}

func (s *answerServiceStub) CreateAnswer(ctx context.Context, authorID, questionID uuid.UUID, input *entities.CreateAnswerInput) (*entities.Answer, error) {
	return s.createFn(ctx, authorID, questionID, input)
}
func (s *answerServiceStub) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*entities.Answer, error) {
	return s.listFn(ctx, questionID)
}
func (s *answerServiceStub) VoteAnswer(ctx context.Context, id uuid.UUID, d entities.VoteDirection) (*entities.Answer, error) {
	return s.voteFn(ctx, id, d)
}

type commentServiceStub struct {
	onQuestionFn   func(context.Context, uuid.UUID, uuid.UUID, *entities.CreateCommentInput) (*entities.Comment, error)
	onAnswerFn     func(context.Context, uuid.UUID, uuid.UUID, *entities.CreateCommentInput) (*entities.Comment, error)
	listQuestionFn func(context.Context, uuid.UUID) ([]*entities.Comment, error)
	listAnswerFn   func(context.Context, uuid.UUID) ([]*entities.Comment, error)
}

func (s *commentServiceStub) CommentOnQuestion(ctx context.Context, authorID, questionID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error) {
	return s.onQuestionFn(ctx, authorID, questionID, input)
}
func (s *commentServiceStub) CommentOnAnswer(ctx context.Context, authorID, answerID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error) {
	return s.onAnswerFn(ctx, authorID, answerID, input)
}
func (s *commentServiceStub) ListQuestionComments(ctx context.Context, questionID uuid.UUID) ([]*entities.Comment, error) {
	return s.listQuestionFn(ctx, questionID)
}
func (s *commentServiceStub) ListAnswerComments(ctx context.Context, answerID uuid.UUID) ([]*entities.Comment, error) {
	return s.listAnswerFn(ctx, answerID)
}

// asUser injects an authenticated user the way SessionMiddleware does.
func asUser(user *entities.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserKey, user)
			c.Set(middleware.UserIDKey, user.ID)
			c.Set(middleware.SessionIDKey, "sid-test")
		}
		c.Next()
	}
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
