package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jobhelper/internal/ai"
	"jobhelper/internal/api/middleware"
	"jobhelper/internal/auth"
	"jobhelper/internal/config"
	"jobhelper/internal/service"
	"jobhelper/internal/storage"
)

// RegisterRoutes 注册全部 /api 路由。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	authService *auth.Service,
	aiClient *ai.Client,
	redisClient *redis.Client,
	asynqClient *asynq.Client,
	storageClient *storage.Client,
	logger *slog.Logger,
) {
	users := service.NewUserService(db, logger)
	resumes := service.NewResumeService(db, logger)
	quizzes := service.NewQuizService(db, logger)

	userHandler := NewUserHandler(users, asynqClient)
	resumeHandler := NewResumeHandler(resumes)
	quizHandler := NewQuizHandler(quizzes)
	authHandler := NewAuthHandler(authService, users, logger, cfg.API.FrontendURL, cfg.API.CookieDomain)
	aiHandler := NewAIHandler(aiClient, redisClient, cfg.Limits.QuizPerHour)
	cvHandler := NewCVHandler(storageClient, logger, cfg.Clamd.Addr, cfg.Upload)
	wsHandler := NewWsHandler(aiClient, authService, logger, cfg.API.AllowedOrigins)
	sessionMiddleware := middleware.SessionMiddleware(authService)

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.GET("/login", authHandler.Login)
			authGroup.GET("/google/callback", authHandler.GoogleCallback)
			authGroup.GET("/me", sessionMiddleware, authHandler.Me)
			authGroup.POST("/logout", authHandler.Logout)
		}

		userGroup := apiGroup.Group("/users")
		userGroup.Use(sessionMiddleware)
		{
			userGroup.POST("", userHandler.CreateUser)
			userGroup.GET("/:userId", userHandler.GetUser)
			userGroup.DELETE("/:userId", userHandler.DeleteUser)

			userGroup.GET("/:userId/resumes", resumeHandler.ListResumes)
			userGroup.POST("/:userId/resumes", resumeHandler.CreateResume)

			userGroup.GET("/:userId/quizzes", quizHandler.ListQuizzes)
			userGroup.POST("/:userId/quizzes", quizHandler.CreateQuiz)
		}

		resumeGroup := apiGroup.Group("/resumes")
		resumeGroup.Use(sessionMiddleware)
		{
			resumeGroup.GET("/:resumeId", resumeHandler.GetResume)
			resumeGroup.PUT("/:resumeId", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:resumeId", resumeHandler.DeleteResume)
		}

		aiGroup := apiGroup.Group("/ai")
		{
			aiGroup.GET("/interview", wsHandler.HandleInterview)

			aiGroup.Use(sessionMiddleware)
			aiGroup.POST("/chat", aiHandler.Chat)
			aiGroup.POST("/quiz", aiHandler.GenerateQuiz)
			aiGroup.POST("/enhance", aiHandler.Enhance)
			aiGroup.POST("/parse-cv", aiHandler.ParseCV)
		}

		cvGroup := apiGroup.Group("/cv")
		cvGroup.Use(sessionMiddleware)
		{
			cvGroup.POST("", cvHandler.UploadCV)
			cvGroup.GET("", cvHandler.ListCVs)
			cvGroup.GET("/url", cvHandler.GetCVURL)
			cvGroup.DELETE("", cvHandler.DeleteCV)
		}
	}
}
