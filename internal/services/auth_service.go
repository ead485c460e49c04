package services

import (
	"context"
	"strings"
	"time"

	"skymarket_backend/internal/auth"
	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/mappers"
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/repositories"
	"skymarket_backend/internal/services/dto"
	"skymarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AuthService - регистрация и проверка учетных данных
type AuthService interface {
	// Login сверяет пароль и выпускает access-токен.
	// Отсутствующий аккаунт и неверный пароль неразличимы для клиента.
	Login(ctx context.Context, email, password string) (dto.LoginResponse, error)

	// Register создает новый аккаунт с ролью USER по умолчанию
	Register(ctx context.Context, req dto.RegisterDto) error
}

type AuthServiceImpl struct {
	db        *gorm.DB
	users     repositories.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(db *gorm.DB, users repositories.UserRepository, jwtSecret string, jwtTTL time.Duration) AuthService {
	return &AuthServiceImpl{
		db:        db,
		users:     users,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(s.db, email)
	if err != nil {
		return dto.LoginResponse{}, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if !user.Enabled {
		return dto.LoginResponse{}, apperrors.NewUnauthorizedError("Account is disabled")
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return dto.LoginResponse{}, apperrors.NewUnauthorizedError("Invalid email or password")
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return dto.LoginResponse{}, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "email", email)
	return dto.LoginResponse{AccessToken: token}, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterDto) error {
	if strings.TrimSpace(req.FirstName) == "" ||
		strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Phone) == "" {
		return apperrors.NewBadRequestError("firstName, lastName and phone are required")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	exists, err := s.users.ExistsByEmail(s.db, req.Username)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exists {
		logger.CtxWarn(ctx, "registration rejected, email already used", "email", req.Username)
		return apperrors.ErrEmailAlreadyUsed()
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user := mappers.RegisterDtoToUser(&req)
	user.PasswordHash = hash
	// Неизвестная роль откатывается к USER, регистрация не падает
	user.Role = models.ParseRole(strings.ToUpper(req.Role))

	if err := s.users.Create(s.db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailAlreadyUsed()
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "email", user.Email, "role", user.Role)
	return nil
}
