// Package rest assembles the HTTP API surface on chi.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"workhub-backend/interfaces/http/rest/handlers"
	"workhub-backend/interfaces/http/rest/middleware"
	"workhub-backend/internal/config"
	"workhub-backend/internal/repository"
	"workhub-backend/internal/service/chat"
	"workhub-backend/internal/ws"
	"workhub-backend/pkg/auth"
	"workhub-backend/pkg/observability"
)

// Router wires handlers, middleware and routes into one http.Handler.
type Router struct {
	cfg           *config.Config
	users         *repository.UserRepository
	orders        *repository.OrderRepository
	projects      *repository.ProjectRepository
	rooms         *repository.ChatRepository
	notifications *repository.NotificationRepository
	transactions  *repository.TransactionRepository
	calendar      *repository.CalendarRepository
	checks        *repository.CheckRepository
	chatService   *chat.Service
	registry      *ws.Registry
	tokens        *auth.Service
	metrics       *observability.Metrics
	logger        *zap.Logger
}

func NewRouter(
	cfg *config.Config,
	users *repository.UserRepository,
	orders *repository.OrderRepository,
	projects *repository.ProjectRepository,
	rooms *repository.ChatRepository,
	notifications *repository.NotificationRepository,
	transactions *repository.TransactionRepository,
	calendar *repository.CalendarRepository,
	checks *repository.CheckRepository,
	chatService *chat.Service,
	registry *ws.Registry,
	tokens *auth.Service,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		users:         users,
		orders:        orders,
		projects:      projects,
		rooms:         rooms,
		notifications: notifications,
		transactions:  transactions,
		calendar:      calendar,
		checks:        checks,
		chatService:   chatService,
		registry:      registry,
		tokens:        tokens,
		metrics:       metrics,
		logger:        logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", handlers.Health)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	userHandler := handlers.NewUserHandler(rt.users, rt.tokens, rt.logger)
	router.Post("/api/v1/users", userHandler.Register)
	router.Post("/api/v1/auth/login", userHandler.Login)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.tokens, rt.logger))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.Me)
			r.Patch("/me", userHandler.Update)
			r.Delete("/me", userHandler.Deactivate)
			r.Get("/{userID}", userHandler.Get)
		})

		r.Route("/orders", func(r chi.Router) {
			orderHandler := handlers.NewOrderHandler(rt.orders, rt.logger)
			r.Post("/", orderHandler.Create)
			r.Get("/", orderHandler.List)
			r.Get("/{orderID}", orderHandler.Get)
			r.Patch("/{orderID}", orderHandler.Update)
			r.Post("/{orderID}/applications", orderHandler.Apply)
			r.Get("/{orderID}/applications", orderHandler.ListApplications)
			r.Patch("/{orderID}/applications/{appID}", orderHandler.DecideApplication)
		})
		r.Get("/applications", handlers.NewOrderHandler(rt.orders, rt.logger).MyApplications)

		r.Route("/projects", func(r chi.Router) {
			projectHandler := handlers.NewProjectHandler(rt.projects, rt.logger)
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.ListMine)
			r.Get("/{projectID}", projectHandler.Get)
			r.Patch("/{projectID}", projectHandler.Update)
			r.Post("/{projectID}/milestones", projectHandler.CreateMilestone)
			r.Get("/{projectID}/milestones", projectHandler.ListMilestones)
			r.Patch("/{projectID}/milestones/{milestoneID}", projectHandler.UpdateMilestone)
			r.Delete("/{projectID}/milestones/{milestoneID}", projectHandler.DeleteMilestone)
		})

		r.Route("/rooms", func(r chi.Router) {
			chatHandler := handlers.NewChatHandler(rt.rooms, rt.chatService, rt.logger)
			r.Post("/", chatHandler.CreateRoom)
			r.Get("/", chatHandler.ListRooms)
			r.Get("/{roomID}", chatHandler.GetRoom)
			r.Post("/{roomID}/messages", chatHandler.SendMessage)
			r.Get("/{roomID}/messages", chatHandler.ListMessages)
		})

		notificationHandler := handlers.NewNotificationHandler(rt.notifications, rt.logger)
		r.Get("/notifications", notificationHandler.List)
		r.Post("/notifications/read", notificationHandler.MarkRead)

		billingHandler := handlers.NewBillingHandler(rt.transactions, rt.logger)
		r.Get("/transactions", billingHandler.List)
		r.Get("/transactions/{txID}", billingHandler.Get)

		r.Route("/calendar", func(r chi.Router) {
			calendarHandler := handlers.NewCalendarHandler(rt.calendar, rt.logger)
			r.Post("/", calendarHandler.Create)
			r.Get("/", calendarHandler.List)
			r.Patch("/{slotID}", calendarHandler.Update)
			r.Delete("/{slotID}", calendarHandler.Delete)
		})

		trustHandler := handlers.NewTrustHandler(rt.checks, rt.logger)
		r.Post("/verifications", trustHandler.SubmitVerification)
		r.Post("/disputes", trustHandler.SubmitDispute)

		r.Get("/presence", handlers.NewPresenceHandler(rt.registry, rt.logger).Get)
	})

	return router
}
