package main

import (
	"context"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheadapter "github.com/apusetone/chat-service/internal/infrastructure/cache/adapter"
	cacheport "github.com/apusetone/chat-service/internal/infrastructure/cache/port"
	"github.com/apusetone/chat-service/internal/infrastructure/config"
	relayadapter "github.com/apusetone/chat-service/internal/infrastructure/relay/adapter"
	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	"github.com/apusetone/chat-service/internal/pkg/auth"
	notifyadapter "github.com/apusetone/chat-service/internal/pkg/notification/adapter"
	notifyport "github.com/apusetone/chat-service/internal/pkg/notification/port"
)

// newRelay connects the cross-instance relay. The memory driver only fans out
// inside this process.
func newRelay(ctx context.Context, cfg config.Config) (relayport.Relay, func(), error) {
	if cfg.RelayDriver == "memory" {
		log.Printf("api: using in-process relay; messages will not reach other instances")
		return relayadapter.NewMemoryRelay(), func() {}, nil
	}
	client, err := cacheadapter.NewRedisClient(ctx, cfg.RedisURL, cfg.PubSubDB)
	if err != nil {
		return nil, nil, err
	}
	return relayadapter.NewRedisRelay(client), func() { _ = client.Close() }, nil
}

func newTokenResolver(cfg config.Config, cache cacheport.Cache) auth.TokenResolver {
	if cfg.AuthMode == "jwt" {
		return auth.NewJWTTokenResolver(cfg.JWTSecret)
	}
	return auth.NewCacheTokenResolver(cache)
}

// newSenders picks the notification providers. Local runs log instead of sending.
func newSenders(ctx context.Context, cfg config.Config) (notifyport.EmailSender, notifyport.PushSender, error) {
	if cfg.IsLocal() {
		s := notifyadapter.LogSender{}
		return s, s, nil
	}

	var (
		email notifyport.EmailSender
		push  notifyport.PushSender
	)
	if cfg.EmailProvider == "ses" || cfg.PushProvider == "sns" {
		awsCfg, err := notifyadapter.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		if cfg.EmailProvider == "ses" {
			email = notifyadapter.NewSESSender(awsCfg, cfg.EmailFrom)
		}
		if cfg.PushProvider == "sns" {
			push = notifyadapter.NewSNSSender(awsCfg)
		}
	}
	if cfg.EmailProvider == "mailgun" {
		email = notifyadapter.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.EmailFrom)
	}
	if cfg.PushProvider == "fcm" {
		fcm, err := notifyadapter.NewFCMSender(ctx, cfg.FCMCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		push = fcm
	}
	return email, push, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", "Origin"},
		ExposeHeaders: []string{"WWW-Authenticate"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// healthHandler reports whether Postgres and the token cache answer.
func healthHandler(pool *pgxpool.Pool, cache cacheport.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		checks := gin.H{"database": "ok", "redis": "ok"}
		status := http.StatusOK
		if err := pool.Ping(ctx); err != nil {
			log.Printf("health: database: %v", err)
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if err := cache.Ping(ctx); err != nil {
			log.Printf("health: redis: %v", err)
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, checks)
	}
}
