package handlers

import (
	"net/http"

	"skymarket_backend/internal/services"
	"skymarket_backend/internal/services/dto"
	"skymarket_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUsersHandler(base *BaseHandler, userService services.UserService) *UsersHandler {
	return &UsersHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UsersHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authRequired)
	{
		users.GET("/me", h.GetCurrentUser)
		users.PATCH("/me", h.UpdateUser)
		users.PATCH("/me/image", h.UpdateUserImage)
		users.POST("/set_password", h.SetPassword)
	}
}

// GetCurrentUser отдает профиль авторизованного пользователя
func (h *UsersHandler) GetCurrentUser(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	user, err := h.userService.GetCurrentUser(c.Request.Context(), email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser частично обновляет профиль и возвращает примененные значения
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	var req dto.UpdateUserDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	applied, err := h.userService.UpdateUser(c.Request.Context(), email, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, applied)
}

// SetPassword меняет пароль после проверки текущего
func (h *UsersHandler) SetPassword(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	var req dto.NewPasswordDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), email, req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// UpdateUserImage заменяет аватар текущего пользователя
func (h *UsersHandler) UpdateUserImage(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
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

	if err := h.userService.UpdateUserImage(c.Request.Context(), email, image); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
