package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"habitboard/internal/config"
	"habitboard/internal/handlers"
	"habitboard/internal/pdf"
	"habitboard/internal/repositories"
	"habitboard/internal/routes"
	"habitboard/internal/services"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "habitboard/docs"
)

func Run() {
	cfg := config.LoadConfig()

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to local: %v", cfg.Server.Timezone, err)
		loc = time.Local
	}

	// === DB ===
	db, err := repositories.OpenDB(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	shareRepo := repositories.NewShareRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)

	// === Services ===
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLHours)*time.Hour,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	var telegramService *services.TelegramService
	if cfg.Telegram.BotToken != "" {
		telegramService, err = services.NewTelegramService(cfg.Telegram.BotToken)
		if err != nil {
			log.Printf("telegram disabled: %v", err)
			telegramService = nil
		}
	}

	userService := services.NewUserService(userRepo, emailService, authService)
	taskService := services.NewTaskService(taskRepo, shareRepo, submissionRepo)
	shareService := services.NewShareService(shareRepo, taskRepo, userService, emailService, telegramService)
	submissionService := services.NewSubmissionService(
		submissionRepo, taskRepo, shareRepo, userRepo,
		cfg.Files.RootDir, loc, telegramService,
	)
	reportService := services.NewReportService(userRepo, taskRepo, submissionRepo, pdf.NewReportGenerator())

	// === Reminders ===
	if cfg.Reminders.Enabled {
		reminder := services.NewReminderService(userRepo, taskRepo, submissionRepo, emailService, telegramService, loc)
		scheduler := services.NewSchedulerService(loc)
		if _, err := scheduler.ScheduleDaily(cfg.Reminders.DailyAt, func() {
			reminder.Run(context.Background())
		}); err != nil {
			log.Fatal("failed to schedule reminders: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("reminders scheduled daily at %s", cfg.Reminders.DailyAt)
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	taskHandler := handlers.NewTaskHandler(taskService, loc)
	shareHandler := handlers.NewShareHandler(shareService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, loc)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// uploaded proofs
	router.Static("/uploads", cfg.Files.RootDir)

	routes.SetupRoutes(
		router,
		authService,
		authHandler,
		taskHandler,
		shareHandler,
		submissionHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
