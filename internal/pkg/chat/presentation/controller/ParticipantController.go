package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type participantLister interface {
	Execute(ctx context.Context, in usecase.ListParticipantsInput) (*chat.Chat, error)
}

// ListParticipantsController returns the members of a conversation to one of them.
type ListParticipantsController struct {
	UC participantLister
}

func NewListParticipantsController(uc participantLister) *ListParticipantsController {
	return &ListParticipantsController{UC: uc}
}

func (h *ListParticipantsController) Handle() gin.HandlerFunc {
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
		found, err := h.UC.Execute(ctx, usecase.ListParticipantsInput{ConversationID: chatID, UserID: userID})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"chat_id":    found.Conversation.ID,
			"created_by": found.Conversation.CreatedBy,
			"user_ids":   found.MemberIDs(),
		})
	}
}

type participantAdder interface {
	Execute(ctx context.Context, in usecase.AddParticipantInput) error
}

// AddParticipantController lets the creator invite a user.
type AddParticipantController struct {
	UC participantAdder
}

func NewAddParticipantController(uc participantAdder) *AddParticipantController {
	return &AddParticipantController{UC: uc}
}

type addParticipantRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}

func (h *AddParticipantController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		chatID, ok := pathID(c, "chatId")
		if !ok {
			return
		}
		var req addParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		err := h.UC.Execute(ctx, usecase.AddParticipantInput{ConversationID: chatID, ActorID: userID, UserID: req.UserID})
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
