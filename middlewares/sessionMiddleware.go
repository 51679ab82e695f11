package middlewares

import (
	"context"
	"net/http"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the `token` header to its redis-backed session
// and puts the caller's identity on the request context. Requests without a
// token pass through; endpoints that need identity check for it themselves.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}

		user, err := models.SessionUser(token)
		if err != nil || user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyToken, token)
		ctx = utils.SetOrgIdInContext(ctx, user.OrgId)
		ctx = utils.SetUserIdInContext(ctx, user.ID)
		ctx = utils.SetUserNameInContext(ctx, user.Name)
		ctx = utils.SetEmailInContext(ctx, user.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
