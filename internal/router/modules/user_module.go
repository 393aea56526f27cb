package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-task-dashboard/internal/interface/http"
)

// UserModule wires the caller's own profile.
// Protected: GET /me, PUT /me, POST /me/avatar (when avatar storage is configured)
type UserModule struct {
	Handler       *handlers.UserHandler
	Auth          gin.HandlerFunc
	AvatarUploads bool
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, avatarUploads bool) *UserModule {
	return &UserModule{Handler: h, Auth: auth, AvatarUploads: avatarUploads}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	me := rg.Group("/me")
	me.Use(m.Auth)
	{
		me.GET("", m.Handler.GetProfile)
		me.PUT("", m.Handler.UpdateProfile)
		if m.AvatarUploads {
			me.POST("/avatar", m.Handler.UploadAvatar)
		}
	}
}
