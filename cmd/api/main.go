package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	v1 "github.com/apusetone/chat-service/cmd/api/router/v1"
	cacheadapter "github.com/apusetone/chat-service/internal/infrastructure/cache/adapter"
	"github.com/apusetone/chat-service/internal/infrastructure/config"
	"github.com/apusetone/chat-service/internal/infrastructure/database"
	queueadapter "github.com/apusetone/chat-service/internal/infrastructure/queue/adapter"
	"github.com/apusetone/chat-service/internal/infrastructure/realtime"
	chatusecase "github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
	chatrepo "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/adapter"
	chathttp "github.com/apusetone/chat-service/internal/pkg/chat/presentation/http"
	notifytask "github.com/apusetone/chat-service/internal/pkg/notification/application/task"
	notifyusecase "github.com/apusetone/chat-service/internal/pkg/notification/application/usecase"
	userhttp "github.com/apusetone/chat-service/internal/pkg/user/presentation/http"
	userrepo "github.com/apusetone/chat-service/internal/repository/adapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("api: %v", err)
	}
	log.Printf("api: stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(startCtx, cfg.DBURL, database.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		return err
	}
	defer pool.Close()
	if cfg.DBMigrate {
		if err := database.EnsureSchema(startCtx, pool); err != nil {
			return err
		}
	}

	tokenClient, err := cacheadapter.NewRedisClient(startCtx, cfg.RedisURL, cfg.AccessTokenDB)
	if err != nil {
		return err
	}
	tokenCache := cacheadapter.NewRedisCache(tokenClient)
	defer tokenCache.Close()

	relay, closeRelay, err := newRelay(startCtx, cfg)
	if err != nil {
		return err
	}
	defer closeRelay()

	email, push, err := newSenders(startCtx, cfg)
	if err != nil {
		return err
	}

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer queueClient.Close()

	users := userrepo.NewPgUserRepository(pool)
	chats := chatrepo.NewPgChatRepository(pool)
	presence := realtime.NewRegistry()

	dispatch := notifyusecase.NewDispatchNotificationUseCase(users, email, push)
	dispatch.Subject = cfg.EmailSubject
	coordinator := chatusecase.NewSubmitMessageUseCase(
		chats, users, presence, relay, notifytask.NewQueueNotifier(queueClient), cfg.RelayChannelPrefix,
	)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.WorkerEnabled {
		worker, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues)
		if err != nil {
			return err
		}
		notifytask.RegisterDispatchTask(worker, dispatch)
		g.Go(func() error { return worker.Run(gctx) })
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})
	r.GET("/up", healthHandler(pool, tokenCache))

	tokens := newTokenResolver(cfg, tokenCache)
	v1.RegisterRoutes(r, chathttp.Dependencies{
		Chats:          chats,
		Tokens:         tokens,
		Presence:       presence,
		Relay:          relay,
		Coordinator:    coordinator,
		ChannelPrefix:  cfg.RelayChannelPrefix,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		BaseContext:    gctx,
	}, userhttp.Dependencies{
		Devices: users,
		Tokens:  tokens,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Printf("api: listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		presence.Close()
		coordinator.Close()
		return err
	})
	return g.Wait()
}
