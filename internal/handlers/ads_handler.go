package handlers

import (
	"encoding/json"
	"net/http"

	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/middleware"
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/services"
	"skymarket_backend/internal/services/dto"
	"skymarket_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AdsHandler struct {
	*BaseHandler
	adService services.AdService
}

func NewAdsHandler(base *BaseHandler, adService services.AdService) *AdsHandler {
	return &AdsHandler{
		BaseHandler: base,
		adService:   adService,
	}
}

// RegisterRoutes регистрирует маршруты объявлений.
// Чтение публичное, мутации и /ads/me - за авторизацией.
func (h *AdsHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("/ads", h.GetAllAds)
	rg.GET("/ads/:id", h.GetAd)

	ads := rg.Group("/ads")
	ads.Use(authRequired)
	{
		ads.POST("", middleware.RequireRole(models.UserRoleUser), h.CreateAd)
		ads.GET("/me", h.GetMyAds)
		ads.PATCH("/:id", h.UpdateAd)
		ads.DELETE("/:id", h.DeleteAd)
		ads.PATCH("/:id/image", h.UpdateAdImage)
	}
}

// GetAllAds отдает все объявления. Необязательный query-параметр title
// фильтрует по подстроке заголовка без учета регистра.
func (h *AdsHandler) GetAllAds(c *gin.Context) {
	result, err := h.adService.GetAllAds(c.Request.Context(), c.Query("title"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateAd принимает multipart: JSON-часть "properties" и файл "image"
func (h *AdsHandler) CreateAd(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	req, ok := h.bindAdProperties(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Image file part is required"))
		return
	}

	image, file, err := imageFromFileHeader(fh)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	created, err := h.adService.CreateAd(c.Request.Context(), req, image, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AdsHandler) GetAd(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	ad, err := h.adService.GetExtendedAdByID(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ad)
}

func (h *AdsHandler) UpdateAd(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateOrUpdateAdDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	updated, err := h.adService.UpdateAd(c.Request.Context(), id, req, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AdsHandler) DeleteAd(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.adService.DeleteAd(c.Request.Context(), id, email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMyAds отдает объявления текущего пользователя
func (h *AdsHandler) GetMyAds(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	result, err := h.adService.GetMyAds(c.Request.Context(), email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateAdImage заменяет картинку объявления и возвращает новый путь
func (h *AdsHandler) UpdateAdImage(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Image file part is required"))
		return
	}

	image, file, err := imageFromFileHeader(fh)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	path, err := h.adService.UpdateAdImage(c.Request.Context(), id, image, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.String(http.StatusOK, path)
}

// bindAdProperties разбирает JSON-часть "properties" multipart-запроса.
// Фронтенд шлет данные объявления отдельной частью рядом с файлом.
func (h *AdsHandler) bindAdProperties(c *gin.Context) (dto.CreateOrUpdateAdDto, bool) {
	var req dto.CreateOrUpdateAdDto

	raw := c.PostForm("properties")
	if raw == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Ad properties part is required"))
		return req, false
	}

	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to parse ad properties", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid ad properties: "+err.Error()))
		return req, false
	}

	if !h.validate(c, &req) {
		return req, false
	}

	return req, true
}
