package handlers

import (
	"net/http"

	"skymarket_backend/internal/services"
	"skymarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации.
// Оба роута публичные, фронтенд ходит на них до получения учетных данных.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.Register)
}

// Login проверяет пару логин/пароль и возвращает access-токен.
// Неверные учетные данные любого рода дают одинаковый 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Register создает нового пользователя. Неизвестная роль трактуется как USER.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Register(c.Request.Context(), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}
