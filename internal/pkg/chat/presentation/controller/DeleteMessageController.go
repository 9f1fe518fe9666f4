package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type messageDeleter interface {
	Execute(ctx context.Context, in usecase.DeleteMessageInput) error
}

// DeleteMessageController removes one of the caller's own messages. It answers
// 204 whether or not anything was deleted.
type DeleteMessageController struct {
	UC messageDeleter
}

func NewDeleteMessageController(uc messageDeleter) *DeleteMessageController {
	return &DeleteMessageController{UC: uc}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		messageID, ok := pathID(c, "messageId")
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.DeleteMessageInput{MessageID: messageID, UserID: userID}); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
