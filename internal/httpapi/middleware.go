package httpapi

import (
	"github.com/gin-gonic/gin"

	"trackplane/pkg/errutil"
	"trackplane/services/identity"
)

const actorContextKey = "httpapi.actor"

// RequireActor resolves the authenticated actor from the X-User-ID
// header. Gateway authentication happens upstream; this layer only
// turns the forwarded identity into a trusted actor record.
func RequireActor(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		actor, err := provider.ActorFromUserID(c.Request.Context(), userID)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) (*identity.Actor, error) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return nil, errutil.Unauthorized("missing actor")
	}
	actor, ok := v.(*identity.Actor)
	if !ok || actor == nil {
		return nil, errutil.Unauthorized("missing actor")
	}
	return actor, nil
}
