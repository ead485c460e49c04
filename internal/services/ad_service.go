package services

import (
	"context"
	"strings"

	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/mappers"
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/repositories"
	"skymarket_backend/internal/services/dto"
	"skymarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdService управляет объявлениями. Все мутации принимают email
// запрашивающего явно и выполняют проверку прав и запись в одной
// транзакции.
type AdService interface {
	GetAllAds(ctx context.Context, query string) (dto.AdsDto, error)
	CreateAd(ctx context.Context, req dto.CreateOrUpdateAdDto, image *ImageUpload, requesterEmail string) (dto.AdDto, error)
	GetExtendedAdByID(ctx context.Context, id uint) (dto.ExtendedAdDto, error)
	UpdateAd(ctx context.Context, id uint, req dto.CreateOrUpdateAdDto, requesterEmail string) (dto.AdDto, error)
	DeleteAd(ctx context.Context, id uint, requesterEmail string) error
	GetMyAds(ctx context.Context, requesterEmail string) (dto.AdsDto, error)
	UpdateAdImage(ctx context.Context, id uint, image *ImageUpload, requesterEmail string) (string, error)
	IsOwner(ctx context.Context, adID uint, email string) bool
	GetAdImagePath(ctx context.Context, id uint) (string, error)
}

type AdServiceImpl struct {
	db       *gorm.DB
	ads      repositories.AdRepository
	users    repositories.UserRepository
	comments repositories.CommentRepository
	images   ImageService
}

func NewAdService(db *gorm.DB, ads repositories.AdRepository, users repositories.UserRepository,
	comments repositories.CommentRepository, images ImageService) AdService {
	return &AdServiceImpl{
		db:       db,
		ads:      ads,
		users:    users,
		comments: comments,
		images:   images,
	}
}

func (s *AdServiceImpl) GetAllAds(ctx context.Context, query string) (dto.AdsDto, error) {
	var (
		ads []models.Ad
		err error
	)
	if query != "" {
		ads, err = s.ads.SearchByTitle(s.db, query)
	} else {
		ads, err = s.ads.FindAll(s.db)
	}
	if err != nil {
		return dto.AdsDto{}, apperrors.InternalError(err)
	}
	return mappers.AdsToAdsDto(ads), nil
}

func (s *AdServiceImpl) CreateAd(ctx context.Context, req dto.CreateOrUpdateAdDto, image *ImageUpload, requesterEmail string) (dto.AdDto, error) {
	author, err := s.users.FindByEmail(s.db, requesterEmail)
	if err != nil {
		// Не должно случаться: аутентификация выше по стеку уже нашла аккаунт
		return dto.AdDto{}, apperrors.ErrUserNotFound(err)
	}

	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return dto.AdDto{}, apperrors.NewBadRequestError("Title must not be blank")
	}
	if req.Price == nil || *req.Price <= 0 {
		return dto.AdDto{}, apperrors.NewBadRequestError("Price must be positive")
	}

	imagePath, err := s.images.SaveImage(ctx, image, SubfolderAds)
	if err != nil {
		return dto.AdDto{}, err
	}

	ad := &models.Ad{
		AuthorID: author.ID,
		Title:    *req.Title,
		Price:    *req.Price,
		ImageURL: imagePath,
	}
	if req.Description != nil {
		ad.Description = *req.Description
	}

	if err := s.ads.Create(s.db, ad); err != nil {
		// Файл уже сохранен, подчищаем, чтобы не копить сирот
		if delErr := s.images.DeleteImage(ctx, imagePath); delErr != nil {
			logger.CtxWarn(ctx, "failed to clean up image after ad insert failure", "path", imagePath, "error", delErr)
		}
		return dto.AdDto{}, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "ad created", "ad_id", ad.ID, "author", requesterEmail)
	return mappers.AdToAdDto(ad), nil
}

func (s *AdServiceImpl) GetExtendedAdByID(ctx context.Context, id uint) (dto.ExtendedAdDto, error) {
	ad, err := s.ads.FindByID(s.db, id)
	if err != nil {
		return dto.ExtendedAdDto{}, apperrors.ErrAdNotFound(err)
	}
	return mappers.AdToExtendedAdDto(ad), nil
}

func (s *AdServiceImpl) UpdateAd(ctx context.Context, id uint, req dto.CreateOrUpdateAdDto, requesterEmail string) (dto.AdDto, error) {
	var updated *models.Ad

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ad, err := s.ads.FindByID(tx, id)
		if err != nil {
			return apperrors.ErrAdNotFound(err)
		}

		if err := s.authorizeAdMutation(tx, ad, requesterEmail); err != nil {
			return err
		}

		if req.Title != nil {
			ad.Title = *req.Title
		}
		if req.Price != nil {
			ad.Price = *req.Price
		}
		if req.Description != nil {
			ad.Description = *req.Description
		}

		if err := s.ads.Update(tx, ad); err != nil {
			return apperrors.InternalError(err)
		}
		updated = ad
		return nil
	})
	if err != nil {
		return dto.AdDto{}, err
	}

	return mappers.AdToAdDto(updated), nil
}

func (s *AdServiceImpl) DeleteAd(ctx context.Context, id uint, requesterEmail string) error {
	var imagePath string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ad, err := s.ads.FindByID(tx, id)
		if err != nil {
			return apperrors.ErrAdNotFound(err)
		}

		if err := s.authorizeAdMutation(tx, ad, requesterEmail); err != nil {
			return err
		}

		// сначала комментарии, затем само объявление
		if err := s.comments.DeleteByAdID(tx, ad.ID); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.ads.Delete(tx, ad); err != nil {
			return apperrors.InternalError(err)
		}

		imagePath = ad.ImageURL
		return nil
	})
	if err != nil {
		return err
	}

	// Файл чистим после коммита, best-effort
	if delErr := s.images.DeleteImage(ctx, imagePath); delErr != nil {
		logger.CtxWarn(ctx, "failed to remove ad image after delete", "path", imagePath)
	}

	logger.CtxInfo(ctx, "ad deleted", "ad_id", id, "requester", requesterEmail)
	return nil
}

func (s *AdServiceImpl) GetMyAds(ctx context.Context, requesterEmail string) (dto.AdsDto, error) {
	author, err := s.users.FindByEmail(s.db, requesterEmail)
	if err != nil {
		return dto.AdsDto{}, apperrors.ErrUserNotFound(err)
	}

	ads, err := s.ads.FindByAuthorID(s.db, author.ID)
	if err != nil {
		return dto.AdsDto{}, apperrors.InternalError(err)
	}
	return mappers.AdsToAdsDto(ads), nil
}

func (s *AdServiceImpl) UpdateAdImage(ctx context.Context, id uint, image *ImageUpload, requesterEmail string) (string, error) {
	var (
		newPath string
		oldPath string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ad, err := s.ads.FindByID(tx, id)
		if err != nil {
			return apperrors.ErrAdNotFound(err)
		}

		if err := s.authorizeAdMutation(tx, ad, requesterEmail); err != nil {
			return err
		}

		path, err := s.images.SaveImage(ctx, image, SubfolderAds)
		if err != nil {
			return err
		}

		oldPath = ad.ImageURL
		ad.ImageURL = path
		if err := s.ads.Update(tx, ad); err != nil {
			return apperrors.InternalError(err)
		}
		newPath = path
		return nil
	})
	if err != nil {
		return "", err
	}

	// Старый файл убираем только после успешного коммита
	if oldPath != "" && oldPath != newPath {
		if delErr := s.images.DeleteImage(ctx, oldPath); delErr != nil {
			logger.CtxWarn(ctx, "failed to remove replaced ad image", "path", oldPath)
		}
	}

	return newPath, nil
}

// IsOwner - чистый предикат: false и для чужого, и для несуществующего объявления
func (s *AdServiceImpl) IsOwner(ctx context.Context, adID uint, email string) bool {
	ad, err := s.ads.FindByID(s.db, adID)
	if err != nil {
		return false
	}
	return ad.Author.Email == email
}

func (s *AdServiceImpl) GetAdImagePath(ctx context.Context, id uint) (string, error) {
	ad, err := s.ads.FindByID(s.db, id)
	if err != nil {
		return "", apperrors.ErrAdNotFound(err)
	}
	return ad.ImageURL, nil
}

// authorizeAdMutation пропускает автора объявления и администратора
func (s *AdServiceImpl) authorizeAdMutation(tx *gorm.DB, ad *models.Ad, requesterEmail string) error {
	user, err := s.users.FindByEmail(tx, requesterEmail)
	if err != nil {
		return apperrors.ErrUserNotFound(err)
	}
	if ad.Author.Email != requesterEmail && !user.IsAdmin() {
		return apperrors.ErrAdAccessDenied()
	}
	return nil
}
