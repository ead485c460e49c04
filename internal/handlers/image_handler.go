package handlers

import (
	"net/http"

	"skymarket_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	*BaseHandler
	imageService services.ImageService
}

func NewImageHandler(base *BaseHandler, imageService services.ImageService) *ImageHandler {
	return &ImageHandler{
		BaseHandler:  base,
		imageService: imageService,
	}
}

// RegisterRoutes регистрирует публичную раздачу картинок.
// Браузер грузит их тегом <img> без заголовка Authorization.
func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/images/:subfolder/:filename", h.GetImage)
}

// GetImage отдает сохраненный файл как есть, байт в байт
func (h *ImageHandler) GetImage(c *gin.Context) {
	imagePath := "/images/" + c.Param("subfolder") + "/" + c.Param("filename")

	data, err := h.imageService.LoadImage(c.Request.Context(), imagePath)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, h.imageService.DetermineMediaType(imagePath), data)
}
