package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/harukimoto/governance-ledger/internal/clock"
	"github.com/harukimoto/governance-ledger/internal/config"
	"github.com/harukimoto/governance-ledger/internal/database"
	"github.com/harukimoto/governance-ledger/internal/handlers"
	"github.com/harukimoto/governance-ledger/internal/middleware"
	"github.com/harukimoto/governance-ledger/internal/repository"
	"github.com/harukimoto/governance-ledger/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("ledger_session", store))

	// The logical clock stands in for the host's height feed: one height
	// per block interval since genesis, never decreasing.
	ledgerClock := clock.NewBlockClock(cfg.GenesisTime, cfg.BlockInterval)

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commRepo := repository.NewCommunicationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, ledgerClock)
	taskService := services.NewTaskService(milestoneRepo, taskRepo, projectService, ledgerClock)
	commService := services.NewCommunicationService(commRepo, projectService, ledgerClock)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commHandler := handlers.NewCommunicationHandler(commService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"height": ledgerClock.Height(),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes. Reads are public lookups; mutations require a
		// session and are authorization-checked inside the services.
		projects := api.Group("/projects")
		{
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.GET("/:id/members/:user_id", projectHandler.GetMemberRole)
			projects.GET("/:id/milestones", taskHandler.ListMilestones)
			projects.GET("/:id/milestones/:milestone_id", taskHandler.GetMilestone)
			projects.GET("/:id/milestones/:milestone_id/tasks", taskHandler.ListTasks)
			projects.GET("/:id/milestones/:milestone_id/tasks/:task_id", taskHandler.GetTask)
			projects.GET("/:id/tasks", taskHandler.GetTasksByAssignee)
			projects.GET("/:id/deadlines", taskHandler.GetUpcomingDeadlines)
			projects.GET("/:id/communications", commHandler.ListCommunications)

			protected := projects.Group("")
			protected.Use(middleware.RequireAuth())
			{
				protected.POST("", projectHandler.CreateProject)
				protected.PATCH("/:id/status", projectHandler.UpdateProjectStatus)
				protected.POST("/:id/members", projectHandler.AddTeamMember)
				protected.POST("/:id/milestones", taskHandler.CreateMilestone)
				protected.PATCH("/:id/milestones/:milestone_id/status", taskHandler.UpdateMilestoneStatus)
				protected.POST("/:id/milestones/:milestone_id/tasks", taskHandler.CreateTask)
				protected.POST("/:id/milestones/:milestone_id/tasks/:task_id/assign", taskHandler.AssignTask)
				protected.PATCH("/:id/milestones/:milestone_id/tasks/:task_id/status", taskHandler.UpdateTaskStatus)
				protected.POST("/:id/communications", commHandler.PostCommunication)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
