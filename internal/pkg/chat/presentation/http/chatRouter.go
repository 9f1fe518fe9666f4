package http

import (
	"github.com/gin-gonic/gin"

	"github.com/apusetone/chat-service/internal/pkg/auth"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
	"github.com/apusetone/chat-service/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat endpoints under g, one controller per endpoint.
func RegisterRoutes(g *gin.RouterGroup, d Dependencies) {
	members := usecase.NewVerifyMembershipUseCase(d.Chats)

	socketCtl := controller.NewChatSocketController(
		d.BaseContext, d.Tokens, members, d.Presence, d.Relay, d.Coordinator, d.ChannelPrefix, d.AllowedOrigins,
	)
	getMsgCtl := controller.NewGetMessageController(usecase.NewReadMessageUseCase(d.Chats))
	sendMsgCtl := controller.NewSendMessageController(members, d.Coordinator)
	deleteMsgCtl := controller.NewDeleteMessageController(usecase.NewDeleteMessageUseCase(d.Chats))
	createCtl := controller.NewCreateChatController(usecase.NewCreateChatUseCase(d.Chats))
	listChatsCtl := controller.NewListChatsController(usecase.NewListChatsUseCase(d.Chats))
	deleteChatCtl := controller.NewDeleteChatController(usecase.NewDeleteChatUseCase(d.Chats, d.Presence))
	listCtl := controller.NewListParticipantsController(usecase.NewListParticipantsUseCase(d.Chats))
	addCtl := controller.NewAddParticipantController(usecase.NewAddParticipantUseCase(d.Chats))

	// GET /api/v1/ws/chat/:chatId -> realtime session; credentials are checked after the upgrade
	g.GET("/ws/chat/:chatId", socketCtl.Handle())

	authed := g.Group("", auth.RequireUser(d.Tokens))

	// GET /api/v1/messages/chat/:chatId -> newest messages, marked read for the caller
	authed.GET("/messages/chat/:chatId", getMsgCtl.Handle())
	// POST /api/v1/messages/chat/:chatId -> post a message
	authed.POST("/messages/chat/:chatId", sendMsgCtl.Handle())
	// DELETE /api/v1/messages/:messageId -> delete one of the caller's messages
	authed.DELETE("/messages/:messageId", deleteMsgCtl.Handle())

	// GET /api/v1/chats -> chats the caller created or joined
	authed.GET("/chats", listChatsCtl.Handle())
	// POST /api/v1/chats -> create a chat
	authed.POST("/chats", createCtl.Handle())
	// DELETE /api/v1/chats/:chatId -> creator removes the chat and ends its live sessions
	authed.DELETE("/chats/:chatId", deleteChatCtl.Handle())
	authed.GET("/chats/:chatId/participants", listCtl.Handle())
	authed.POST("/chats/:chatId/participants", addCtl.Handle())
}
