package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/unilinkng/backend/internal/careerai"
	"github.com/unilinkng/backend/internal/handlers"
	"github.com/unilinkng/backend/internal/middleware"
	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
	"github.com/unilinkng/backend/internal/store"
	"github.com/unilinkng/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.Profile{},
		&models.StudentProfile{},
		&models.OrganizationProfile{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.Job{},
		&models.Application{},
		&models.Connection{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Realtime hub, fed by every write path below ---
	hub := realtime.NewHub()

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	jobRepo := repositories.NewPostgresJobRepository(pgdb)
	applicationRepo := repositories.NewPostgresApplicationRepository(pgdb)
	connectionRepo := repositories.NewPostgresConnectionRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	roadmapRepo := repositories.NewMongoRoadmapRepository(mgClient.Database(cfg.MongoDatabase))

	// --- Protected routes (require a verified Firebase ID token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	// Profile routes
	profileHandler := handlers.NewProfileHandler(profileRepo, notificationRepo, hub)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Feed and post routes
	postHandler := handlers.NewPostHandler(postRepo, profileRepo, likeRepo, hub)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, profileRepo, notificationRepo, hub)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, profileRepo, notificationRepo, hub)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Job and application routes
	jobHandler := handlers.NewJobHandler(jobRepo, applicationRepo, profileRepo, hub)
	jobHandler.RegisterJobRoutes(api)
	log.Println("Job routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(connectionRepo, profileRepo, notificationRepo, hub)
	connectionHandler.RegisterConnectionRoutes(api)
	log.Println("Connection routes configured.")

	// Message routes
	messageHandler := handlers.NewMessageHandler(messageRepo, connectionRepo, profileRepo, notificationRepo, hub)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, profileRepo, hub)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Career advisor routes
	generator := careerai.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	careerHandler := handlers.NewCareerHandler(generator, roadmapRepo, profileRepo)
	careerHandler.RegisterCareerRoutes(api)
	log.Println("Career routes configured.")

	// Generic store routes for the sync client
	storeHandler := handlers.NewStoreHandler(store.NewGormStore(pgdb), hub)
	storeHandler.RegisterStoreRoutes(api)
	log.Println("Store routes configured.")

	// Realtime websocket stream
	wsHandler := realtime.NewWSHandler(hub)
	wsHandler.RegisterRealtimeRoutes(api)
	log.Println("Realtime routes configured.")

	log.Println("All routes configured.")
}
