package modules

import (
	"expvar"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinic-suite/clinic-backend/internal/container"
	"github.com/clinic-suite/clinic-backend/internal/interface/middleware"
)

var (
	publishOnce sync.Once
	startedAt   = time.Now()
)

// publishVars adds process gauges next to expvar's memstats and cmdline.
// expvar.Publish panics on duplicates, hence the Once.
func publishVars() {
	publishOnce.Do(func() {
		expvar.Publish("uptime_seconds", expvar.Func(func() any { return int64(time.Since(startedAt).Seconds()) }))
		expvar.Publish("goroutines", expvar.Func(func() any { return runtime.NumGoroutine() }))
	})
}

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

// Register mounts expvar at /api/debug/vars for internal callers only.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishVars()
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", middleware.RequireAllowed(middleware.AllowPrivateIP()), rl, gin.WrapH(expvar.Handler()))
}
