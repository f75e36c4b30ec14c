package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/metrics"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

type RestfulServer struct {
	Server      *gin.Engine
	Telemetry   *telemetry.Telemetry
	StaticDir   string
	CORSOrigins []string
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer)
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(rs.observe)

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(metrics.Handler()))

	rs.Server.GET("/register_device", rs.limitDevice, rs.RegisterDevice)
	rs.Server.GET("/update_data", rs.limitDevice, rs.UpdateData)
	rs.Server.GET("/get_data", rs.GetData)

	rs.Server.POST("/limiter", rs.PostLimiter)

	rs.Server.NoRoute(rs.ServeStatic)
}

// Handler returns the engine wrapped with CORS handling. An empty origin list
// allows every origin.
func (rs *RestfulServer) Handler() http.Handler {
	origins := rs.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "API-Key"},
	})
	return c.Handler(rs.Server)
}

func (rs *RestfulServer) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "static"
	}
	metrics.ObserveHTTPRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
}

// limitDevice applies the per-device token bucket to write routes. Requests
// without a device name or a valid key are left for the operation to reject.
func (rs *RestfulServer) limitDevice(c *gin.Context) {
	if rs.Telemetry.AdmitWrite(c.Query(common.ParamAPIKey), c.Query(common.ParamDeviceName)) {
		c.Next()
		return
	}
	rs.writeError(c, telemetry.ErrRateLimited)
	c.Abort()
}

func (rs *RestfulServer) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch telemetry.Reason(err) {
	case "unauthorized":
		status, message = http.StatusForbidden, err.Error()
	case "not_found":
		status, message = http.StatusNotFound, err.Error()
	case "rate_limited":
		status, message = http.StatusTooManyRequests, err.Error()
	case "internal":
		logger().Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	default:
		status, message = http.StatusBadRequest, err.Error()
	}

	c.JSON(status, gin.H{"error": message})
}
