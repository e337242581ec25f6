package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/internal/api"
	"studyhub/internal/app/service"
	"studyhub/internal/app/worker"
	"studyhub/internal/common/security"
	"studyhub/internal/domain/repository"
	"studyhub/internal/platform/cache"
	"studyhub/internal/platform/config"
	"studyhub/internal/platform/database"
	"studyhub/internal/platform/mail"
	"studyhub/internal/platform/practice"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	log.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	log.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	groupRepo := repository.NewPgGroupRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	messageRepo := repository.NewPgMessageRepository(database.DB)
	deckRepo := repository.NewPgDeckRepository(database.DB)
	verifRepo := repository.NewPgVerificationRepository(database.DB)

	// 6. Outbound clients
	var mailer mail.Mailer
	if config.AppConfig.SendgridAPIKey != "" {
		mailer = mail.NewSendgridMailer(config.AppConfig.SendgridAPIKey, config.AppConfig.AppName, config.AppConfig.MailFrom)
	} else {
		mailer = mail.NewConsoleMailer()
	}
	practiceClient := practice.NewHTTPClient(config.AppConfig.PracticeAPIBaseURL)
	locker := cache.NewRedisLocker(cache.RDB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo, mailer)
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo, database.DB)
	taskService := service.NewTaskService(taskRepo, groupRepo)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, groupRepo)
	leaderboardService := service.NewLeaderboardService(taskRepo, submissionRepo, userRepo, groupRepo, service.LeaderboardOptions{
		DefaultScore:            config.AppConfig.SubmissionDefaultScore,
		IncludeZeroScoreMembers: config.AppConfig.LeaderboardIncludeZeroMembers,
	})
	lockTTL := time.Duration(config.AppConfig.VerifyLockTTLSeconds) * time.Second
	verificationService := service.NewVerificationService(
		userRepo, taskRepo, verifRepo,
		practiceClient, locker,
		lockTTL, config.AppConfig.PracticeRecentLimit,
	)
	messageService := service.NewMessageService(messageRepo, groupRepo)
	deckService := service.NewDeckService(deckRepo, database.DB)

	// 8. Background sweeper for stuck verification attempts
	sweeper := worker.NewAttemptSweeper(
		verifRepo,
		time.Duration(config.AppConfig.SweepIntervalMinutes)*time.Minute,
		lockTTL,
	)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()
	if err := sweeper.Start(sweeperCtx); err != nil {
		log.Fatalf("Could not start attempt sweeper: %v", err)
	}

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		userService,
		groupService,
		taskService,
		submissionService,
		leaderboardService,
		verificationService,
		messageService,
		deckService,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")
	sweeperCancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and sweeper stopped gracefully.")
}
