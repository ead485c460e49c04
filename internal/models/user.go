package models

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// ParseRole приводит строку к роли. Неизвестные значения
// откатываются к USER - так вел себя исходный сервис регистрации.
func ParseRole(s string) UserRole {
	switch UserRole(s) {
	case UserRoleAdmin:
		return UserRoleAdmin
	case UserRoleUser:
		return UserRoleUser
	default:
		return UserRoleUser
	}
}

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	FirstName    string   `gorm:"size:64"`
	LastName     string   `gorm:"size:64"`
	Phone        string   `gorm:"size:32"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'USER'"`
	Image        string   // путь к аватару, может быть пустым
	Enabled      bool     `gorm:"default:true"`

	// Relations
	Ads      []Ad      `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:AuthorID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
