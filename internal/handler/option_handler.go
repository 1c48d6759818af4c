package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack/internal/middleware"
	"fleettrack/internal/service"
	"fleettrack/pkg/response"
)

type OptionHandler struct {
	options service.OptionService
	auth    *middleware.Auth
}

func NewOptionHandler(options service.OptionService, auth *middleware.Auth) *OptionHandler {
	return &OptionHandler{options: options, auth: auth}
}

func (h *OptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	options := router.Group("/admin/dropdown-options", h.auth.RequireAdmin())
	{
		options.GET("", h.List)
		options.POST("", h.Create)
		options.PUT("/reorder", h.Reorder)
		options.PUT("/:id", h.Update)
		options.DELETE("/:id", h.Delete)
	}
}

// List returns taxonomy options, optionally filtered by type
// @Summary      List dropdown options
// @Tags         options
// @Security     BearerAuth
// @Param        type              query     string  false  "Option type"
// @Param        include_inactive  query     bool    false  "Include deactivated options"
// @Success      200               {object}  response.Response{data=[]service.OptionResponse}
// @Router       /admin/dropdown-options [get]
func (h *OptionHandler) List(c *gin.Context) {
	includeInactive := false
	if raw := c.Query("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid 'include_inactive' value"))
			return
		}
		includeInactive = v
	}

	options, err := h.options.ListAll(c.Request.Context(), c.Query("type"), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Options retrieved", options))
}

func (h *OptionHandler) Create(c *gin.Context) {
	var req service.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	option, err := h.options.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Option created", option))
}

func (h *OptionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	var req service.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	option, err := h.options.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Option updated", option))
}

func (h *OptionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	if err := h.options.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Option deleted", nil))
}

func (h *OptionHandler) Reorder(c *gin.Context) {
	var req service.ReorderOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.options.Reorder(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Options reordered", nil))
}
