package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	routerV1 "go-huddle/cmd/api/router/v1"
	cacheAdapter "go-huddle/internal/infrastructure/cache/adapter"
	"go-huddle/internal/infrastructure/database"
	"go-huddle/internal/infrastructure/identity"
	queueAdapter "go-huddle/internal/infrastructure/queue/adapter"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/logging"
	"go-huddle/internal/observability"
	"go-huddle/internal/pkg/hub/application/task"
	"go-huddle/internal/pkg/hub/application/usecase"
	repoAdapter "go-huddle/internal/pkg/hub/persistence/repository/adapter"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
	"go-huddle/internal/pkg/hub/presentation/controller"
	httpHandler "go-huddle/internal/pkg/hub/presentation/http"
)

const defaultShutdownTimeout = 10 * time.Second

func main() {
	log := logging.New()
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(); err != nil {
		// A missing .env is normal in containerized deploys.
		log.Debug("no .env file loaded", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.NewPoolFromEnv(connectCtx)
	cancel()
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	verifier, err := identity.NewJWTVerifierFromEnv()
	if err != nil {
		log.Fatal("failed to configure token verification", zap.Error(err))
	}

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatal("failed to connect queue client", zap.Error(err))
	}
	defer func() { _ = queueClient.Close() }()

	queueServer, err := queueAdapter.NewAsynqServer(log)
	if err != nil {
		log.Fatal("failed to configure queue server", zap.Error(err))
	}

	registry := realtime.NewRegistry()
	metrics := observability.NewMetrics()

	var contacts repository.ContactRepository = repoAdapter.NewPgContactRepository(pool)
	if os.Getenv("REDIS_URL") != "" {
		cache, err := cacheAdapter.NewRedisAdapter()
		if err != nil {
			log.Warn("redis unavailable, contact cache disabled", zap.Error(err))
		} else {
			defer func() { _ = cache.Close() }()
			contacts = repoAdapter.NewCachedContactRepository(contacts, cache, log)
		}
	}

	messages := repoAdapter.NewPgMessageRepository(pool)
	notifications := repoAdapter.NewPgNotificationRepository(pool)

	typingTTL := usecase.DefaultTypingTTL
	if v := os.Getenv("HUB_TYPING_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			typingTTL = d
		}
	}

	typingUC := usecase.NewSendTypingUseCase(registry, log, typingTTL)
	defer typingUC.Stop()

	deliverUC := usecase.NewDeliverNotificationUseCase(notifications, registry, log)
	task.RegisterDeliverNotificationTask(queueServer, deliverUC, metrics)

	deps := httpHandler.Deps{
		Verifier:          verifier,
		Queue:             queueClient,
		Metrics:           metrics,
		Log:               log,
		Socket:            socketUseCases(registry, contacts, messages, typingUC, log),
		ListNotifications: usecase.NewListNotificationsUseCase(notifications),
		MarkRead:          usecase.NewMarkNotificationReadUseCase(notifications, registry, log),
		MarkAllRead:       usecase.NewMarkAllNotificationsReadUseCase(notifications, registry, log),
		Delete:            usecase.NewDeleteNotificationUseCase(notifications, registry, log),
		GetConversation:   usecase.NewGetConversationUseCase(messages),
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	routerV1.RegisterRoutes(r, deps)

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}
	srv := &http.Server{Addr: addr, Handler: r}

	errCh := make(chan error, 2)
	go func() {
		log.Info("hub listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", zap.Error(err))
	}
	if err := queueServer.Stop(shutdownCtx); err != nil {
		log.Warn("queue shutdown incomplete", zap.Error(err))
	}
	registry.Close()
	log.Info("hub stopped")
}

func socketUseCases(
	registry *realtime.Registry,
	contacts repository.ContactRepository,
	messages repository.MessageRepository,
	typing *usecase.SendTypingUseCase,
	log *zap.Logger,
) controller.SocketUseCases {
	return controller.SocketUseCases{
		Join:          usecase.NewJoinUseCase(registry, contacts, log),
		Leave:         usecase.NewLeaveUseCase(registry, contacts, log),
		UpdateFocus:   usecase.NewUpdateFocusUseCase(registry, contacts, log),
		OnlineUsers:   usecase.NewGetOnlineUsersUseCase(registry, contacts),
		Typing:        typing,
		SendMessage:   usecase.NewSendMessageUseCase(messages, registry, log),
		MessageStatus: usecase.NewUpdateMessageStatusUseCase(messages, registry, log),
	}
}
