package dto

// UserDto - профиль текущего пользователя
type UserDto struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Image     string `json:"image"`
}

// UpdateUserDto - частичное обновление профиля, nil-поля не трогаются
type UpdateUserDto struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=2,max=64"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2,max=64"`
	Phone     *string `json:"phone" validate:"omitempty,min=5,max=32"`
}

// NewPasswordDto - тело запроса POST /users/set_password
type NewPasswordDto struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=8,max=64"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=64"`
}
