package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type messageReader interface {
	Execute(ctx context.Context, in usecase.ReadMessageInput) ([]chat.Message, error)
}

// GetMessageController serves a page of a conversation and marks it read.
type GetMessageController struct {
	UC messageReader
}

func NewGetMessageController(uc messageReader) *GetMessageController {
	return &GetMessageController{UC: uc}
}

type pageQuery struct {
	Offset *int `form:"offset" binding:"omitempty,min=0,max=50"`
	Limit  *int `form:"limit"  binding:"omitempty,min=0,max=10"`
}

const defaultPageLimit = 10

// page applies the defaults for parameters the client left out.
func page(limitParam, offsetParam *int) (limit, offset int) {
	limit = defaultPageLimit
	if limitParam != nil {
		limit = *limitParam
	}
	if offsetParam != nil {
		offset = *offsetParam
	}
	return limit, offset
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		chatID, ok := pathID(c, "chatId")
		if !ok {
			return
		}
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		limit, offset := page(q.Limit, q.Offset)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		msgs, err := h.UC.Execute(ctx, usecase.ReadMessageInput{
			ConversationID: chatID,
			UserID:         userID,
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": records(msgs)})
	}
}
