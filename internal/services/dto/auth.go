package dto

// LoginDto - тело запроса POST /login.
// username - это email аккаунта.
type LoginDto struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse возвращается при успешном логине.
// Токен опционален для клиента: Basic-авторизация работает и без него.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterDto - тело запроса POST /register
type RegisterDto struct {
	Username  string `json:"username" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=64"`
	FirstName string `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string `json:"lastName" validate:"required,min=2,max=64"`
	Phone     string `json:"phone" validate:"required,min=5,max=32"`
	Role      string `json:"role" validate:"omitempty"`
}
