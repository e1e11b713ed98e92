package bootstrap

import (
	"context"
	"log"

	"ai-interview-be/internal/config"
	"ai-interview-be/internal/controller"
	"ai-interview-be/internal/handler"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/mailer"
	"ai-interview-be/internal/repository/memory"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/internal/service"
	"ai-interview-be/internal/websocket"
	"ai-interview-be/pkg/embedding"
	"ai-interview-be/pkg/llm/factory"
	"ai-interview-be/pkg/vision"

	pkgNats "ai-interview-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	InterviewController controller.IInterviewController
	FeedbackController  controller.IFeedbackController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	SessionHandler      *handler.SessionHandler
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	// A missing database leaves the engine running in degraded mode: sessions
	// work, resume retrieval and feedback persistence do not.
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Printf("[WARN] No database configured; retrieval and feedback storage disabled")
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var visionAnalyst vision.Analyzer
	if cfg.Keys.GoogleGemini != "" {
		visionAnalyst = vision.NewGeminiAnalyzer(cfg.Keys.GoogleGemini, cfg.Ai.VisionModel)
	} else {
		log.Printf("[WARN] No Gemini key; screen compliance and visual coaching disabled")
	}

	// In-Memory Session State
	sessionRegistry := memory.NewSessionRegistry()
	pendingResumes := memory.NewPendingResumeStore(cfg.Interview.PendingResumeTTL)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.IndexResumeTopic, pubSub)

	retrievalService := service.NewRetrievalService(
		uowFactory,
		embeddingProvider,
		cfg.Interview.ChunkBudget,
		cfg.Interview.RetrievalTopK,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IndexResumeTopic,
		retrievalService,
		pendingResumes,
		natsPub,
	)

	feedbackService := service.NewFeedbackService(uowFactory, llmProvider, natsPub, sysLogger)

	interviewService := service.NewInterviewService(
		cfg,
		sessionRegistry,
		pendingResumes,
		publisherService,
		retrievalService,
		feedbackService,
		llmProvider,
		visionAnalyst,
		natsPub,
		sysLogger,
	)

	notifService := service.NewNotificationService(natsSub, wsHub, emailService, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	// 5. Handlers & Controllers
	sessionHandler := handler.NewSessionHandler(interviewService, sysLogger)
	notifHandler := handler.NewNotificationHandler(natsPub, wsHub, wsLogger)

	return &Container{
		InterviewController: controller.NewInterviewController(interviewService),
		FeedbackController:  controller.NewFeedbackController(feedbackService),

		SessionHandler:      sessionHandler,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ConsumerService: consumerService,
	}
}
