package repositories

import (
	"errors"

	"skymarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAdNotFound = errors.New("ad not found")

type AdRepository interface {
	FindByID(db *gorm.DB, id uint) (*models.Ad, error)
	FindAll(db *gorm.DB) ([]models.Ad, error)
	FindByAuthorID(db *gorm.DB, authorID uint) ([]models.Ad, error)
	SearchByTitle(db *gorm.DB, query string) ([]models.Ad, error)
	ExistsByID(db *gorm.DB, id uint) (bool, error)
	Create(db *gorm.DB, ad *models.Ad) error
	Update(db *gorm.DB, ad *models.Ad) error
	Delete(db *gorm.DB, ad *models.Ad) error
}

type AdRepositoryImpl struct{}

func NewAdRepository() AdRepository {
	return &AdRepositoryImpl{}
}

func (r *AdRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Ad, error) {
	var ad models.Ad
	err := db.Preload("Author").First(&ad, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	return &ad, nil
}

func (r *AdRepositoryImpl) FindAll(db *gorm.DB) ([]models.Ad, error) {
	var ads []models.Ad
	if err := db.Preload("Author").Order("id").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *AdRepositoryImpl) FindByAuthorID(db *gorm.DB, authorID uint) ([]models.Ad, error) {
	var ads []models.Ad
	if err := db.Preload("Author").Where("author_id = ?", authorID).Order("id").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *AdRepositoryImpl) SearchByTitle(db *gorm.DB, query string) ([]models.Ad, error) {
	var ads []models.Ad
	pattern := "%" + query + "%"
	if err := db.Preload("Author").Where("lower(title) LIKE lower(?)", pattern).Order("id").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *AdRepositoryImpl) ExistsByID(db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Ad{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AdRepositoryImpl) Create(db *gorm.DB, ad *models.Ad) error {
	return db.Create(ad).Error
}

func (r *AdRepositoryImpl) Update(db *gorm.DB, ad *models.Ad) error {
	return db.Save(ad).Error
}

func (r *AdRepositoryImpl) Delete(db *gorm.DB, ad *models.Ad) error {
	return db.Delete(ad).Error
}
