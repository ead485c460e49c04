package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	AdService      AdService
	CommentService CommentService
	ImageService   ImageService
}
