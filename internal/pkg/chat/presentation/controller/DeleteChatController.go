package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type chatDeleter interface {
	Execute(ctx context.Context, in usecase.DeleteChatInput) error
}

// DeleteChatController removes a conversation the caller created. It answers
// 204 whether or not anything was deleted.
type DeleteChatController struct {
	UC chatDeleter
}

func NewDeleteChatController(uc chatDeleter) *DeleteChatController {
	return &DeleteChatController{UC: uc}
}

func (h *DeleteChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		chatID, ok := pathID(c, "chatId")
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.DeleteChatInput{ConversationID: chatID, UserID: userID}); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
