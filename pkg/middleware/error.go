package middleware

import (
	"errors"
	"net/http"

	"trackplane/pkg/errutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error renders the last error recorded on the gin context as a JSON
// body derived from the domain error taxonomy. Unknown errors surface as
// an opaque internal error so no internal state leaks to callers.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		var base errutil.BaseError
		if errors.As(last.Err, &base) {
			c.JSON(base.Code.HTTPStatus(), base.JSON())
			return
		}

		zap.L().Error("unhandled error", zap.Error(last.Err), zap.String("path", c.FullPath()))
		internal := errutil.Internal("unexpected server error").(errutil.BaseError)
		c.JSON(http.StatusInternalServerError, internal.JSON())
	}
}
