package main

import (
	"log"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/db"
	"learning-service/internal/event"
	"learning-service/internal/handlers"
	"learning-service/internal/repository"
	"learning-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	defer db.DisconnectMongo()
	db.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, learning events will not be published")
	}

	database := db.Client.Database(cfg.MongoDatabase)

	courseRepo := repository.NewCourseRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	enrollmentRepo := repository.NewEnrollmentRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	noteRepo := repository.NewNoteRepository(database)
	transcriptRepo := repository.NewTranscriptRepository(database)
	cacheRepo := repository.NewCacheRepository(db.RedisClient)

	progressService := service.NewProgressService(progressRepo, enrollmentRepo, courseRepo, publisher, cfg.CompletionThreshold)
	quizService := service.NewQuizService(attemptRepo, courseRepo, progressService, publisher)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, progressRepo, courseRepo, publisher)
	catalogService := service.NewCatalogService(
		courseRepo,
		enrollmentRepo,
		progressRepo,
		quizService,
		cacheRepo,
		publisher,
		time.Duration(cfg.CatalogCacheTTLMin)*time.Minute,
	)
	noteService := service.NewNoteService(noteRepo, quizService, publisher)
	assistantService := service.NewAssistantService(
		transcriptRepo,
		courseRepo,
		quizService,
		cfg.EmbeddingBaseURL,
		cfg.EmbeddingModel,
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
	)
	statsService := service.NewStatsService(courseRepo, enrollmentRepo)

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	progressHandler := handlers.NewProgressHandler(progressService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	quizHandler := handlers.NewQuizHandler(quizService)
	noteHandler := handlers.NewNoteHandler(noteService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes - catalog browsing, no identity needed
	publicCourse := r.Group("/public/learning/course")
	{
		publicCourse.GET("/", catalogHandler.ListCourses)
		publicCourse.GET("/:id", catalogHandler.GetCourse)
		publicCourse.GET("/:id/access", catalogHandler.GetAccessMap)
	}

	// Protected routes - gateway forwards identity in X-User-ID
	protectedCourse := r.Group("/protected/learning/course")
	{
		protectedCourse.POST("/:id/enroll", enrollmentHandler.Enroll)
		protectedCourse.DELETE("/:id/enroll", enrollmentHandler.Deactivate)
		protectedCourse.GET("/:id/progress", progressHandler.GetCourseProgress)
	}

	protectedVideo := r.Group("/protected/learning/video")
	{
		protectedVideo.POST("/:id/progress", progressHandler.ReportProgress)
		protectedVideo.GET("/:id/progress", progressHandler.GetProgress)
		protectedVideo.POST("/:id/playback", quizHandler.ReportPlayback)
		protectedVideo.GET("/:id/quiz", quizHandler.GateStatus)
		protectedVideo.POST("/:id/quiz/answer", quizHandler.SubmitAnswer)
		protectedVideo.PUT("/:id/note", noteHandler.SaveNote)
		protectedVideo.GET("/:id/note", noteHandler.GetNote)
		protectedVideo.DELETE("/:id/note", noteHandler.DeleteNote)
		protectedVideo.POST("/:id/assistant", assistantHandler.Ask)
	}

	protectedStudent := r.Group("/protected/learning/student")
	{
		protectedStudent.GET("/enrollments", enrollmentHandler.ListEnrollments)
		protectedStudent.GET("/notes", noteHandler.ListNotes)
	}

	// Admin routes - course ingestion and dashboard
	adminGroup := r.Group("/protected/learning/admin")
	{
		adminGroup.POST("/course/sync", catalogHandler.SyncCourse)
		adminGroup.POST("/video/:id/transcript", assistantHandler.IndexTranscript)
		adminGroup.GET("/stats", statsHandler.Overview)
	}

	log.Printf("%s %s listening on :%s", cfg.ServiceName, cfg.ServiceVersion, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
