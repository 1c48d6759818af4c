package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack/internal/middleware"
	"fleettrack/internal/service"
	"fleettrack/pkg/pagination"
	"fleettrack/pkg/response"
)

// AdminHandler covers user administration, the dashboard and anomaly review.
type AdminHandler struct {
	admin       service.AdminService
	authService service.AuthService
	auth        *middleware.Auth
	trips       service.TripService
}

func NewAdminHandler(admin service.AdminService, trips service.TripService, authService service.AuthService, auth *middleware.Auth) *AdminHandler {
	return &AdminHandler{admin: admin, trips: trips, authService: authService, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/admin/login", h.Login)

	admin := router.Group("/admin", h.auth.RequireAdmin())
	{
		admin.GET("/profile", h.Profile)
		admin.GET("/dashboard", h.Dashboard)

		users := admin.Group("/users")
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.GET("/:id", h.GetUser)
			users.PUT("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeleteUser)
			users.PUT("/:id/reset-password", h.ResetPassword)
		}

		// Creating another admin requires the root account.
		admin.POST("/admins", h.auth.RequireSuperAdmin(), h.CreateAdmin)

		admin.GET("/missing-loading-entries", h.MissingLoadingEntries)
		admin.GET("/missing-unloading-entries", h.MissingUnloadingEntries)
	}
}

// Login authenticates an admin account
// @Summary      Admin login
// @Tags         admin
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      401      {object}  response.Response
// @Router       /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	// A valid operator credential is still not an admin credential.
	if !resp.User.IsAdmin && !resp.User.IsSuperAdmin {
		c.JSON(http.StatusUnauthorized, response.Error("Invalid credentials"))
		return
	}
	c.JSON(http.StatusOK, response.Success("Login successful", resp))
}

// Profile returns the authenticated admin account
// @Summary      Admin profile
// @Tags         admin
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Router       /admin/profile [get]
func (h *AdminHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, err := h.authService.Profile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Profile retrieved", profile))
}

// Dashboard returns fleet-wide counters
// @Summary      Admin dashboard
// @Tags         admin
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Dashboard retrieved", stats))
}

// ListUsers pages through accounts with optional search
// @Summary      List users
// @Tags         admin
// @Security     BearerAuth
// @Param        search     query     string  false  "Match name or email"
// @Param        is_active  query     bool    false  "Filter by status"
// @Success      200        {object}  response.Response{data=[]service.UserResponse}
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	req := service.UserListRequest{
		Search: c.Query("search"),
		Limit:  p.Limit,
		Skip:   p.Skip,
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid 'is_active' value"))
			return
		}
		req.IsActive = &active
	}

	users, total, err := h.admin.ListUsers(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Users retrieved", users, pagination.Build(total, p, len(users))))
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.admin.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("User created", user))
}

// CreateAdmin provisions an admin account
// @Summary      Create admin
// @Tags         admin
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "Admin Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      403      {object}  response.Response
// @Router       /admin/admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.IsAdmin = true

	user, err := h.admin.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Admin created", user))
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	user, err := h.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("User retrieved", user))
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.admin.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auth.InvalidateUser(id)
	c.JSON(http.StatusOK, response.Success("User updated", user))
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	var req struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if _, err := h.admin.UpdateUser(c.Request.Context(), id, service.UpdateUserRequest{Password: &req.Password}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Password reset", nil))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.auth.InvalidateUser(id)
	c.JSON(http.StatusOK, response.Success("User deleted", nil))
}

func (h *AdminHandler) MissingLoadingEntries(c *gin.Context) {
	p := pagination.ParseWithDefaults(c, 50, 100)
	entries, total, err := h.trips.MissingLoadingEntries(c.Request.Context(), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Missing loading point entries retrieved", entries, pagination.Build(total, p, len(entries))))
}

func (h *AdminHandler) MissingUnloadingEntries(c *gin.Context) {
	p := pagination.ParseWithDefaults(c, 50, 100)
	entries, total, err := h.trips.MissingUnloadingEntries(c.Request.Context(), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Missing unloading point entries retrieved", entries, pagination.Build(total, p, len(entries))))
}
