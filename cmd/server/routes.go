package main

import (
	"devqa.backend/internal/config"
	"devqa.backend/internal/interfaces/http/handlers"
	"devqa.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	questionHandler   *handlers.QuestionHandler
	answerHandler     *handlers.AnswerHandler
	commentHandler    *handlers.CommentHandler
	sessionMiddleware gin.HandlerFunc
	authRateLimit     gin.HandlerFunc
}

func newRouter(cfg *config.Config, a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r, handlers.NewHealthHandler(serviceName, serviceVersion, a.healthChecks))
	registerMetricsRoute(r)

	cookie := middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Server.IsProduction(),
	}
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	registerAPIRoutes(r, routeDeps{
		authHandler:       handlers.NewAuthHandler(a.authUsecase, cookie),
		questionHandler:   handlers.NewQuestionHandler(a.questionUsecase),
		answerHandler:     handlers.NewAnswerHandler(a.answerUsecase),
		commentHandler:    handlers.NewCommentHandler(a.commentUsecase),
		sessionMiddleware: middleware.SessionMiddleware(a.authUsecase, cookie),
		authRateLimit:     middleware.RateLimitMiddleware(limiter),
	})
	return r
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	requireAuth := middleware.RequireAuth()
	idempotent := middleware.IdempotencyMiddleware()

	api := r.Group("/api")
	api.Use(d.sessionMiddleware)
	{
		// Account routes
		api.POST("/register", d.authRateLimit, d.authHandler.Register)
		api.GET("/verify-email", d.authHandler.VerifyEmail)
		api.POST("/login", d.authRateLimit, d.authHandler.Login)
		api.POST("/logout", d.authHandler.Logout)
		api.GET("/user", d.authHandler.CurrentUser)
		api.POST("/resend-verification", d.authRateLimit, d.authHandler.ResendVerification)
		api.POST("/password-reset/request", d.authRateLimit, d.authHandler.RequestPasswordReset)
		api.POST("/password-reset/confirm", d.authRateLimit, d.authHandler.ConfirmPasswordReset)

		// Question routes (reads are public)
		questions := api.Group("/questions")
		{
			questions.GET("", d.questionHandler.ListQuestions)
			questions.GET("/:id", d.questionHandler.GetQuestion)
			questions.POST("", requireAuth, idempotent, d.questionHandler.CreateQuestion)
			questions.POST("/:id/vote", requireAuth, d.questionHandler.VoteQuestion)

			questions.GET("/:id/answers", d.answerHandler.ListAnswers)
			questions.POST("/:id/answers", requireAuth, idempotent, d.answerHandler.CreateAnswer)

			questions.GET("/:id/comments", d.commentHandler.ListQuestionComments)
			questions.POST("/:id/comments", requireAuth, d.commentHandler.CommentOnQuestion)
		}

		// Answer routes
		answers := api.Group("/answers")
		{
			answers.POST("/:id/vote", requireAuth, d.answerHandler.VoteAnswer)
			answers.GET("/:id/comments", d.commentHandler.ListAnswerComments)
			answers.POST("/:id/comments", requireAuth, d.commentHandler.CommentOnAnswer)
		}
	}
}
