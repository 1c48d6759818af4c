package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack/internal/middleware"
	"fleettrack/internal/service"
	"fleettrack/pkg/response"
)

type RoleHandler struct {
	roles service.RoleService
	auth  *middleware.Auth
}

func NewRoleHandler(roles service.RoleService, auth *middleware.Auth) *RoleHandler {
	return &RoleHandler{roles: roles, auth: auth}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/admin/roles", h.auth.RequireAdmin())
	{
		roles.GET("", h.ListRoles)
		roles.POST("", h.CreateRole)
		roles.GET("/permissions", h.ListPermissions)
		roles.GET("/:id", h.GetRole)
		roles.PUT("/:id", h.UpdateRole)
		roles.DELETE("/:id", h.DeleteRole)
		roles.GET("/:id/users", h.UsersByRole)
	}

	router.PUT("/admin/users/:id/role", h.auth.RequireAdmin(), h.AssignRole)
}

// ListRoles returns all roles with user counts
// @Summary      List roles
// @Tags         roles
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Router       /admin/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Roles retrieved", roles))
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Role created", role))
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRoleNotFound)
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Role retrieved", role))
}

func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRoleNotFound)
		return
	}

	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Role updated", role))
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRoleNotFound)
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Role deleted", nil))
}

// ListPermissions returns the closed permission vocabulary
// @Summary      List permissions
// @Tags         roles
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.PermissionResponse}
// @Router       /admin/roles/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success("Permissions retrieved", h.roles.ListPermissions(c.Request.Context())))
}

func (h *RoleHandler) UsersByRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRoleNotFound)
		return
	}

	users, err := h.roles.ListUsersByRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Users retrieved", users))
}

func (h *RoleHandler) AssignRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	var req struct {
		RoleID *uuid.UUID `json:"role_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.roles.AssignRole(c.Request.Context(), userID, req.RoleID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auth.InvalidateUser(userID)
	c.JSON(http.StatusOK, response.Success("Role assigned", user))
}
