package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack/internal/middleware"
	"fleettrack/internal/service"
	"fleettrack/pkg/pagination"
	"fleettrack/pkg/response"
)

type SelectionHandler struct {
	selections service.SelectionService
	options    service.OptionService
	auth       *middleware.Auth
}

func NewSelectionHandler(selections service.SelectionService, options service.OptionService, auth *middleware.Auth) *SelectionHandler {
	return &SelectionHandler{selections: selections, options: options, auth: auth}
}

func (h *SelectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sel := router.Group("/selection", h.auth.RequireUser())
	{
		sel.POST("", h.Save)
		sel.GET("/options", h.Options)
		sel.GET("/active", h.Active)
		sel.GET("/history", h.History)
		sel.PUT("/:id/deactivate", h.Deactivate)
	}
}

// Save stores the operator's current project/point choice
// @Summary      Save selection
// @Tags         selection
// @Security     BearerAuth
// @Param        payload  body      service.SaveSelectionRequest  true  "Selection Payload"
// @Success      201      {object}  response.Response
// @Router       /selection [post]
func (h *SelectionHandler) Save(c *gin.Context) {
	var req service.SaveSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sel, err := h.selections.Save(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Selection saved", sel))
}

// Options returns all active dropdown options grouped by type so the
// selection screen loads in one call.
func (h *SelectionHandler) Options(c *gin.Context) {
	options, err := h.options.ListAll(c.Request.Context(), "", false)
	if err != nil {
		respondError(c, err)
		return
	}

	grouped := make(map[string][]service.OptionResponse)
	for _, opt := range options {
		grouped[string(opt.Type)] = append(grouped[string(opt.Type)], opt)
	}
	c.JSON(http.StatusOK, response.Success("Options retrieved", grouped))
}

func (h *SelectionHandler) Active(c *gin.Context) {
	sel, err := h.selections.Current(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Active selection retrieved", sel))
}

func (h *SelectionHandler) History(c *gin.Context) {
	p := pagination.Parse(c)
	selections, total, err := h.selections.History(c.Request.Context(), middleware.CurrentUserID(c), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Selection history retrieved", selections, pagination.Build(total, p, len(selections))))
}

func (h *SelectionHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid selection id"))
		return
	}

	if err := h.selections.Deactivate(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Selection deactivated", nil))
}
