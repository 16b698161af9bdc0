// @title           StudyHall API
// @version         1.0
// @description     Backend for the StudyHall study tool: courses, notes, quizzes and quiz attempts
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhall-backend/internal/cache"
	"studyhall-backend/internal/config"
	"studyhall-backend/internal/database"
	"studyhall-backend/internal/handlers"
	"studyhall-backend/internal/middleware"
	"studyhall-backend/internal/repository"
	"studyhall-backend/internal/services"
	"studyhall-backend/pkg/logger"
	"studyhall-backend/pkg/monitoring"

	_ "studyhall-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.Server.Mode)
	defer logger.Log.Sync()

	monitoring.Init()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	// Quiz snapshots feed the attempt engine; redis-backed cache when
	// configured, process-local TTL cache otherwise.
	quizLoader := repository.NewGormQuizSource(db)
	var quizSource repository.QuizSource
	var invalidator services.QuizInvalidator
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisCache := cache.NewRedisQuizCache(redisClient, quizLoader, cfg.Cache.QuizTTL)
		quizSource, invalidator = redisCache, redisCache
	} else {
		memCache := cache.NewMemoryQuizCache(quizLoader, cfg.Cache.QuizTTL)
		quizSource, invalidator = memCache, memCache
	}

	attemptStore := repository.NewGormAttemptStore(db)

	authService := services.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	courseService := services.NewCourseService(db)
	noteService := services.NewNoteService(db, courseService)
	quizService := services.NewQuizService(db, courseService, invalidator)
	attemptService := services.NewAttemptService(attemptStore, quizSource)

	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService)
	noteHandler := handlers.NewNoteHandler(noteService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(monitoring.MetricsMiddleware())

	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	r.Use(middleware.RateLimiter(cfg.RateLimit.MaxRequests, window))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", monitoring.MetricsHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		courses := api.Group("/courses")
		courses.Use(middleware.JWTAuth(authService))
		{
			courses.GET("", courseHandler.ListCourses)
			courses.POST("", courseHandler.CreateCourse)
			courses.GET("/:id", courseHandler.GetCourse)
			courses.PUT("/:id", courseHandler.UpdateCourse)
			courses.DELETE("/:id", courseHandler.DeleteCourse)
			courses.GET("/:id/notes", noteHandler.ListNotes)
			courses.POST("/:id/notes", noteHandler.CreateNote)
			courses.GET("/:id/quizzes", quizHandler.ListQuizzes)
			courses.POST("/:id/quizzes", quizHandler.CreateQuiz)
		}

		notes := api.Group("/notes")
		notes.Use(middleware.JWTAuth(authService))
		{
			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.JWTAuth(authService))
		{
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.PUT("/:id", quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
			quizzes.POST("/:id/questions", questionHandler.CreateQuestion)
			quizzes.POST("/:id/attempts", attemptHandler.StartAttempt)
			quizzes.POST("/:id/attempts/retake", attemptHandler.RetakeQuiz)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.JWTAuth(authService))
		{
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}

		attempts := api.Group("/attempts")
		attempts.Use(middleware.JWTAuth(authService))
		{
			attempts.GET("", attemptHandler.ListAttempts)
			attempts.GET("/:id", attemptHandler.GetAttempt)
			attempts.POST("/:id/next", attemptHandler.NextQuestion)
			attempts.POST("/:id/answers", attemptHandler.SubmitAnswer)
			attempts.GET("/:id/result", attemptHandler.GetResult)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
}
