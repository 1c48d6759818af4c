package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack/internal/middleware"
	"fleettrack/internal/service"
	"fleettrack/pkg/response"
)

type ImageHandler struct {
	images service.ImageService
	auth   *middleware.Auth
}

func NewImageHandler(images service.ImageService, auth *middleware.Auth) *ImageHandler {
	return &ImageHandler{images: images, auth: auth}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	images := router.Group("/images")
	{
		// Fetch by filename is public so the mobile app can render thumbnails
		// without juggling tokens in <img> tags.
		images.GET("/unloading-point/:filename", h.Fetch)
		images.POST("/unloading-point/:id", h.auth.RequireUser(), h.Upload)
		images.GET("/unloading-point/by-id/:id", h.auth.RequireAdmin(), h.FetchByRecord)
		images.DELETE("/unloading-point/by-id/:id", h.auth.RequireAdmin(), h.Delete)
	}
}

// Upload attaches a proof-of-delivery photo to an unloading record
// @Summary      Upload unloading image
// @Tags         images
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Param        id     path      string  true  "Unloading record id"
// @Param        image  formData  file    true  "Image file (max 10 MB)"
// @Success      201    {object}  response.Response{data=service.ImageUploadResponse}
// @Failure      400    {object}  response.Response
// @Router       /images/unloading-point/{id} [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Image file is required"))
		return
	}

	result, err := h.images.Upload(c.Request.Context(), recordID, file, func(dst string) error {
		return c.SaveUploadedFile(file, dst)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Image uploaded", result))
}

func (h *ImageHandler) Fetch(c *gin.Context) {
	path, err := h.images.ResolvePath(c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}

func (h *ImageHandler) FetchByRecord(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	path, err := h.images.PathForRecord(c.Request.Context(), recordID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}

func (h *ImageHandler) Delete(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return
	}

	if err := h.images.Delete(c.Request.Context(), recordID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Image deleted", nil))
}
