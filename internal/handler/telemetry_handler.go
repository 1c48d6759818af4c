package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/middleware"
	"fleettrack/internal/service"
	"fleettrack/pkg/pagination"
	"fleettrack/pkg/response"
)

type TelemetryHandler struct {
	telemetry service.TelemetryService
	auth      *middleware.Auth
	limiter   *middleware.RateLimiter
}

func NewTelemetryHandler(telemetry service.TelemetryService, auth *middleware.Auth, limiter *middleware.RateLimiter) *TelemetryHandler {
	return &TelemetryHandler{telemetry: telemetry, auth: auth, limiter: limiter}
}

func (h *TelemetryHandler) RegisterRoutes(router *gin.RouterGroup) {
	tel := router.Group("/telemetry", h.auth.RequireUser())
	{
		tel.POST("", h.limiter.Middleware(), h.IngestSingle)
		tel.POST("/batch", h.limiter.Middleware(), h.IngestBatch)
		tel.GET("", h.History)
		tel.GET("/latest", h.Latest)
	}
}

// IngestSingle accepts one location point
// @Summary      Report location
// @Tags         telemetry
// @Security     BearerAuth
// @Param        payload  body      service.LocationPoint  true  "Location Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /telemetry [post]
func (h *TelemetryHandler) IngestSingle(c *gin.Context) {
	var point service.LocationPoint
	if err := c.ShouldBindJSON(&point); err != nil {
		bindError(c, err)
		return
	}

	count, err := h.telemetry.IngestBatch(c.Request.Context(), middleware.CurrentUserID(c), service.IngestBatchRequest{
		Points: []service.LocationPoint{point},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Location recorded", gin.H{"saved": count}))
}

// IngestBatch accepts up to 100 points in one call
// @Summary      Report location batch
// @Tags         telemetry
// @Security     BearerAuth
// @Param        payload  body      service.IngestBatchRequest  true  "Batch Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /telemetry/batch [post]
func (h *TelemetryHandler) IngestBatch(c *gin.Context) {
	var req service.IngestBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	count, err := h.telemetry.IngestBatch(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Locations recorded", gin.H{"saved": count}))
}

func (h *TelemetryHandler) History(c *gin.Context) {
	p := pagination.Parse(c)
	req := service.LocationHistoryRequest{Limit: p.Limit, Skip: p.Skip}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid 'from' timestamp"))
			return
		}
		req.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid 'to' timestamp"))
			return
		}
		req.To = &t
	}

	points, total, err := h.telemetry.History(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Location history retrieved", points, pagination.Build(total, p, len(points))))
}

func (h *TelemetryHandler) Latest(c *gin.Context) {
	point, err := h.telemetry.Latest(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Latest location retrieved", point))
}
