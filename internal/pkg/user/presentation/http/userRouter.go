package http

import (
	"github.com/gin-gonic/gin"

	"github.com/apusetone/chat-service/internal/pkg/auth"
	"github.com/apusetone/chat-service/internal/pkg/user/application/usecase"
	"github.com/apusetone/chat-service/internal/pkg/user/presentation/controller"
	repository "github.com/apusetone/chat-service/internal/repository/port"
)

// Dependencies are the collaborators the user endpoints share.
type Dependencies struct {
	Devices repository.DeviceRepository
	Tokens  auth.TokenResolver
}

// RegisterRoutes registers user endpoints under g.
func RegisterRoutes(g *gin.RouterGroup, d Dependencies) {
	sessionCtl := controller.NewSessionController(usecase.NewRegisterDeviceUseCase(d.Devices))

	authed := g.Group("", auth.RequireUser(d.Tokens))
	// PUT /api/v1/sessions -> register the push target of the caller's device
	authed.PUT("/sessions", sessionCtl.Handle())
}
