package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sizing-eval/internal/domain"
	resp "sizing-eval/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with the generic
// internal error envelope.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.AbortWith(c, http.StatusInternalServerError, domain.CodeInternal, "internal error")
	})
}
