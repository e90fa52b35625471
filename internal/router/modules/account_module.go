package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/locshare-api/internal/container"
	handlers "github.com/oksasatya/locshare-api/internal/interface/http"
	"github.com/oksasatya/locshare-api/internal/interface/middleware"
)

// AccountModule wires the unauthenticated account routes.
// Public: POST /api/v2/signup, POST /api/v2/reset/:resetID
type AccountModule struct {
	Handler *handlers.AccountHandler
}

func NewAccountModule(h *handlers.AccountHandler) *AccountModule {
	return &AccountModule{Handler: h}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIP(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.SignUp)
	rg.POST("/reset/:resetID", resetLimiter, m.Handler.Reset)
}
