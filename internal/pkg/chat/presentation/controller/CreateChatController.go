package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type chatCreator interface {
	Execute(ctx context.Context, in usecase.CreateChatInput) (*chat.Chat, error)
}

// CreateChatController opens a conversation owned by the caller.
type CreateChatController struct {
	UC chatCreator
}

func NewCreateChatController(uc chatCreator) *CreateChatController {
	return &CreateChatController{UC: uc}
}

type createChatRequest struct {
	Name           string  `json:"name" binding:"required"`
	ParticipantIDs []int64 `json:"participant_ids" binding:"required,min=1"`
}

func (h *CreateChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req createChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		created, err := h.UC.Execute(ctx, usecase.CreateChatInput{
			CreatorID:      userID,
			Name:           req.Name,
			ParticipantIDs: req.ParticipantIDs,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, chatJSON(created))
	}
}

func chatJSON(c *chat.Chat) gin.H {
	out := conversationJSON(c.Conversation)
	out["participant_ids"] = c.ParticipantIDs
	return out
}

func conversationJSON(c chat.Conversation) gin.H {
	return gin.H{
		"id":         c.ID,
		"name":       c.Name,
		"chat_type":  c.Type.String(),
		"created_by": c.CreatedBy,
		"created_at": c.CreatedAt,
	}
}
