package http

import (
	"net/http"

	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

// Query extraction never rejects a request on its own. Whatever could not be
// lifted stays empty and the operation reports it in its usual order.

func (rs *RestfulServer) RegisterDevice(c *gin.Context) {
	var req telemetry.RegisterDeviceRequest
	if issues := telemetry.RegisterDeviceInput.Parse(zhttp.Request(c.Request), &req); issues != nil {
		logger().Debug("Unreadable register_device query", zap.Any("issues", issues))
		req = telemetry.RegisterDeviceRequest{APIKey: c.Query(common.ParamAPIKey)}
	}

	resp, err := rs.Telemetry.RegisterDevice(c.Request.Context(), req)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (rs *RestfulServer) UpdateData(c *gin.Context) {
	var req telemetry.UpdateDataRequest
	if issues := telemetry.UpdateDataInput.Parse(zhttp.Request(c.Request), &req); issues != nil {
		logger().Debug("Unreadable update_data query", zap.Any("issues", issues))
		req = telemetry.UpdateDataRequest{APIKey: c.Query(common.ParamAPIKey)}
	}

	resp, err := rs.Telemetry.UpdateData(c.Request.Context(), req)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (rs *RestfulServer) GetData(c *gin.Context) {
	var req telemetry.GetDataRequest
	if issues := telemetry.GetDataInput.Parse(zhttp.Request(c.Request), &req); issues != nil {
		logger().Debug("Unreadable get_data query", zap.Any("issues", issues))
		req = telemetry.GetDataRequest{}
	}

	resp, err := rs.Telemetry.GetData(c.Request.Context(), req)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PostLimiter takes the key from the query string and the limiter from a JSON
// body.
func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	var req telemetry.SetLimiterRequest
	if issues := telemetry.SetLimiterInput.Parse(zhttp.Request(c.Request), &req); issues != nil {
		logger().Debug("Unreadable limiter body", zap.Any("issues", issues))
		req = telemetry.SetLimiterRequest{}
	}
	req.APIKey = c.Query(common.ParamAPIKey)

	resp, err := rs.Telemetry.SetLimiter(c.Request.Context(), req)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
