package controller

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apusetone/chat-service/internal/pkg/auth"
	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

const requestTimeout = 3 * time.Second

// pathID parses a positive id path parameter, writing 400 when it is not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// currentUser returns the caller resolved by auth.RequireUser.
func currentUser(c *gin.Context) (int64, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
	}
	return id, ok
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrNotParticipant), errors.Is(err, chat.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, chat.ErrConversationNotFound), errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrContentTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps use case errors to a status. Internal details are logged,
// not returned.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func records(msgs []chat.Message) []chat.Record {
	out := make([]chat.Record, 0, len(msgs))
	for i := range msgs {
		out = append(out, msgs[i].Record())
	}
	return out
}
