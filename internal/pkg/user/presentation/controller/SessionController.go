package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apusetone/chat-service/internal/pkg/auth"
	"github.com/apusetone/chat-service/internal/pkg/user/application/usecase"
	repository "github.com/apusetone/chat-service/internal/repository/port"
)

const requestTimeout = 3 * time.Second

type deviceRegistrar interface {
	Execute(ctx context.Context, in usecase.RegisterDeviceInput) error
}

// SessionController attaches a push target to the caller's session.
type SessionController struct {
	UC deviceRegistrar
}

func NewSessionController(uc deviceRegistrar) *SessionController {
	return &SessionController{UC: uc}
}

type sessionRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,max=32"`
	DeviceToken  string `json:"device_token"  binding:"required,max=255"`
	PlatformType string `json:"platform_type" binding:"required,oneof=unknown ios android"`
}

func (h *SessionController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		var req sessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		err := h.UC.Execute(ctx, usecase.RegisterDeviceInput{
			UserID:       userID,
			RefreshToken: req.RefreshToken,
			DeviceToken:  req.DeviceToken,
			Platform:     req.PlatformType,
		})
		switch {
		case err == nil:
			c.Status(http.StatusNoContent)
		case errors.Is(err, repository.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, usecase.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}
}
