package routes

import (
	"skymarket_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
// Пути лежат в корне без версионного префикса - их ждет готовый фронтенд.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers, // <-- Принимаем ГОТОВЫЕ хэндлеры
	authRequired gin.HandlerFunc,
) {
	root := ginRouter.Group("")
	{
		appHandlers.AuthHandler.RegisterRoutes(root)
		appHandlers.ImageHandler.RegisterRoutes(root)
		appHandlers.AdsHandler.RegisterRoutes(root, authRequired)
		appHandlers.CommentsHandler.RegisterRoutes(root, authRequired)
		appHandlers.UsersHandler.RegisterRoutes(root, authRequired)
	}
}
