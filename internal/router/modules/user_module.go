package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/locshare-api/internal/application"
	"github.com/oksasatya/locshare-api/internal/container"
	handlers "github.com/oksasatya/locshare-api/internal/interface/http"
	"github.com/oksasatya/locshare-api/internal/interface/middleware"
)

// UserModule wires all authenticated per-user routes under
// /api/v2/user/:userID, guarded by the authorizationtoken middleware.
type UserModule struct {
	Accounts *application.AccountService
	User     *handlers.UserHandler
	Sharing  *handlers.SharingHandler
	Places   *handlers.PlaceHandler
}

func NewUserModule(accounts *application.AccountService, user *handlers.UserHandler, sharing *handlers.SharingHandler, places *handlers.PlaceHandler) *UserModule {
	return &UserModule{Accounts: accounts, User: user, Sharing: sharing, Places: places}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user/:userID")
	user.Use(middleware.Auth(m.Accounts))
	user.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		user.GET("/dashboard", m.User.Dashboard)
		user.POST("/location", m.User.ReportLocation)
		user.PUT("/visibility", m.User.SetVisibility)
		user.PUT("/language", m.User.SetLanguage)
		user.POST("/apnToken", m.User.PushToken("apn"))
		user.POST("/gcmToken", m.User.PushToken("gcm"))
		user.POST("/wp8Token", m.User.PushToken("wp8"))
		user.POST("/crashReport", m.User.CrashReport)

		user.POST("/allow", m.Sharing.Allow)
		user.DELETE("/allow/:targetID", m.Sharing.Deny)
		user.POST("/update/locations", m.Sharing.RequestLocationUpdates)

		user.GET("/place", m.Places.List)
		user.POST("/place", m.Places.Create)
		user.PUT("/place/:placeID", m.Places.Update)
		user.DELETE("/place/:placeID", m.Places.Delete)
	}
}
