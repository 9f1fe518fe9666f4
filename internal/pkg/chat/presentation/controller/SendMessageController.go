package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type membershipVerifier interface {
	Execute(ctx context.Context, in usecase.VerifyMembershipInput) error
}

type messageSubmitter interface {
	Execute(ctx context.Context, in usecase.SubmitMessageInput) (*chat.Message, error)
}

// SendMessageController posts a message through the same coordinator the
// realtime sessions use, so both entry points record readers alike.
type SendMessageController struct {
	Members   membershipVerifier
	Submitter messageSubmitter
}

func NewSendMessageController(members membershipVerifier, submitter messageSubmitter) *SendMessageController {
	return &SendMessageController{Members: members, Submitter: submitter}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		chatID, ok := pathID(c, "chatId")
		if !ok {
			return
		}
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.Members.Execute(ctx, usecase.VerifyMembershipInput{ConversationID: chatID, UserID: userID}); err != nil {
			respondError(c, err)
			return
		}
		msg, err := h.Submitter.Execute(ctx, usecase.SubmitMessageInput{
			ConversationID: chatID,
			SenderID:       userID,
			Content:        req.Content,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg.Record())
	}
}
