package api

import (
	"net/http"
	"time"

	"studyhub/internal/api/handler"
	"studyhub/internal/api/middleware"
	"studyhub/internal/app/service"
	"studyhub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	groupService *service.GroupService,
	taskService *service.TaskService,
	submissionService *service.SubmissionService,
	leaderboardService *service.LeaderboardService,
	verificationService *service.VerificationService,
	messageService *service.MessageService,
	deckService *service.DeckService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present and puts claims in context; the
	// Authenticator middleware enforces it per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Profile routes (authenticated)
		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		// Group routes plus the group-scoped resources: tasks, leaderboard,
		// chat messages. All require auth.
		groupHandler := handler.NewGroupHandler(groupService)
		taskHandler := handler.NewTaskHandler(taskService)
		leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
		messageHandler := handler.NewMessageHandler(messageService)
		v1.Route("/groups", func(gr chi.Router) {
			gr.Use(middleware.Authenticator)
			groupHandler.RegisterRoutes(gr)
			taskHandler.RegisterRoutes(gr)
			leaderboardHandler.RegisterRoutes(gr)
			messageHandler.RegisterRoutes(gr)
		})

		// Task-scoped routes: submissions and the external-problem verifier.
		submissionHandler := handler.NewSubmissionHandler(submissionService)
		verificationHandler := handler.NewVerificationHandler(verificationService)
		v1.Route("/tasks", func(tr chi.Router) {
			tr.Use(middleware.Authenticator)
			submissionHandler.RegisterTaskRoutes(tr)
			verificationHandler.RegisterRoutes(tr)
		})

		// Caller-scoped submission routes
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		// Flashcard decks (authenticated, owner-scoped)
		deckHandler := handler.NewDeckHandler(deckService)
		v1.Route("/decks", deckHandler.RegisterRoutes)
	})

	return r
}
