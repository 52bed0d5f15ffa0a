package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

// Register exposes the default prometheus registry at /debug/metrics.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/metrics", gin.WrapH(promhttp.Handler()))
}
