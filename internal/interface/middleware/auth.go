package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/locshare-api/internal/application"
	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/pkg/response"
)

// UserKey is the gin context key under which Auth stores the resolved record.
const UserKey = "userRecord"

// Auth validates the authorizationtoken header against the user id in the
// path and stores the resolved record in the Gin context. Client
// version/platform headers are passed along as opportunistic hints.
func Auth(accounts *application.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		token := c.GetHeader("authorizationtoken")
		if userID == "" || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing credentials", nil)
			c.Abort()
			return
		}

		hints := entity.ClientInfo{
			Version:  c.GetHeader("version"),
			Platform: c.GetHeader("platform"),
		}
		u, err := accounts.Authorize(c.Request.Context(), userID, token, hints)
		if err != nil {
			response.Error[any](c, application.StatusFor(err), "authorization failed", nil)
			c.Abort()
			return
		}

		c.Set("userID", u.ID)
		c.Set(UserKey, u)
		c.Next()
	}
}

// UserFromCtx returns the record stored by Auth, nil when absent.
func UserFromCtx(c *gin.Context) *entity.UserRecord {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.UserRecord)
	return u
}
