package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	AdsHandler      *AdsHandler
	CommentsHandler *CommentsHandler
	UsersHandler    *UsersHandler
	ImageHandler    *ImageHandler
}
