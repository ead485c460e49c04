package mappers

import (
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/services/dto"
)

// UserToUserDto собирает DTO профиля
func UserToUserDto(user *models.User) dto.UserDto {
	return dto.UserDto{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Role:      string(user.Role),
		Image:     user.Image,
	}
}

// RegisterDtoToUser создает нового пользователя из данных регистрации.
// Пароль и роль проставляет вызывающий сервис.
func RegisterDtoToUser(req *dto.RegisterDto) *models.User {
	return &models.User{
		Email:     req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Enabled:   true,
	}
}
