package v1

import (
	"github.com/gin-gonic/gin"

	chathttp "github.com/apusetone/chat-service/internal/pkg/chat/presentation/http"
	userhttp "github.com/apusetone/chat-service/internal/pkg/user/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, chats chathttp.Dependencies, users userhttp.Dependencies) {
	v1 := r.Group("/api/v1")
	chathttp.RegisterRoutes(v1, chats)
	userhttp.RegisterRoutes(v1, users)
}
