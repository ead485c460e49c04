package services

import (
	"context"

	"skymarket_backend/internal/auth"
	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/mappers"
	"skymarket_backend/internal/repositories"
	"skymarket_backend/internal/services/dto"
	"skymarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserService управляет профилем текущего пользователя
type UserService interface {
	GetCurrentUser(ctx context.Context, email string) (dto.UserDto, error)
	UpdatePassword(ctx context.Context, email string, req dto.NewPasswordDto) error
	UpdateUser(ctx context.Context, email string, req dto.UpdateUserDto) (dto.UpdateUserDto, error)
	UpdateUserImage(ctx context.Context, email string, image *ImageUpload) error
}

type UserServiceImpl struct {
	db     *gorm.DB
	users  repositories.UserRepository
	images ImageService
}

func NewUserService(db *gorm.DB, users repositories.UserRepository, images ImageService) UserService {
	return &UserServiceImpl{
		db:     db,
		users:  users,
		images: images,
	}
}

func (s *UserServiceImpl) GetCurrentUser(ctx context.Context, email string) (dto.UserDto, error) {
	user, err := s.users.FindByEmail(s.db, email)
	if err != nil {
		return dto.UserDto{}, apperrors.ErrUserNotFound(err)
	}
	return mappers.UserToUserDto(user), nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, email string, req dto.NewPasswordDto) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.users.FindByEmail(tx, email)
		if err != nil {
			return apperrors.ErrUserNotFound(err)
		}

		if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
			return apperrors.ErrWrongPassword()
		}
		// Новый пароль обязан отличаться от старого
		if auth.CheckPasswordHash(req.NewPassword, user.PasswordHash) {
			return apperrors.ErrPasswordUnchanged()
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return apperrors.InternalError(err)
		}
		user.PasswordHash = hash
		return s.users.Update(tx, user)
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(ctx, "password updated", "email", email)
	return nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, email string, req dto.UpdateUserDto) (dto.UpdateUserDto, error) {
	var response dto.UpdateUserDto

	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.users.FindByEmail(tx, email)
		if err != nil {
			return apperrors.ErrUserNotFound(err)
		}

		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}

		if err := s.users.Update(tx, user); err != nil {
			return apperrors.InternalError(err)
		}

		response = dto.UpdateUserDto{
			FirstName: &user.FirstName,
			LastName:  &user.LastName,
			Phone:     &user.Phone,
		}
		return nil
	})
	if err != nil {
		return dto.UpdateUserDto{}, err
	}

	return response, nil
}

func (s *UserServiceImpl) UpdateUserImage(ctx context.Context, email string, image *ImageUpload) error {
	var oldPath string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.users.FindByEmail(tx, email)
		if err != nil {
			return apperrors.ErrUserNotFound(err)
		}

		imagePath, err := s.images.SaveImage(ctx, image, SubfolderAvatars)
		if err != nil {
			// Ошибка хранилища при загрузке аватара видна клиенту как 400
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.CodeStorageError {
				return apperrors.NewBadRequestError("Failed to store avatar image")
			}
			return err
		}

		oldPath = user.Image
		user.Image = imagePath
		return s.users.Update(tx, user)
	})
	if err != nil {
		return err
	}

	if oldPath != "" {
		if delErr := s.images.DeleteImage(ctx, oldPath); delErr != nil {
			logger.CtxWarn(ctx, "failed to remove replaced avatar", "path", oldPath)
		}
	}

	logger.CtxInfo(ctx, "avatar updated", "email", email)
	return nil
}
