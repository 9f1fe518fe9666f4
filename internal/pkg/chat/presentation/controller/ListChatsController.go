package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

type chatLister interface {
	Execute(ctx context.Context, in usecase.ListChatsInput) ([]chat.Conversation, error)
}

// ListChatsController pages through the caller's conversations.
type ListChatsController struct {
	UC chatLister
}

func NewListChatsController(uc chatLister) *ListChatsController {
	return &ListChatsController{UC: uc}
}

type chatPageQuery struct {
	Offset *int `form:"offset" binding:"omitempty,min=0,max=50"`
	Limit  *int `form:"limit"  binding:"omitempty,min=0,max=10"`
	Desc   bool `form:"desc"`
}

func (h *ListChatsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var q chatPageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		limit, offset := page(q.Limit, q.Offset)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		convs, err := h.UC.Execute(ctx, usecase.ListChatsInput{
			UserID:      userID,
			Limit:       limit,
			Offset:      offset,
			NewestFirst: q.Desc,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]gin.H, 0, len(convs))
		for _, conv := range convs {
			out = append(out, conversationJSON(conv))
		}
		c.JSON(http.StatusOK, gin.H{"chats": out})
	}
}
