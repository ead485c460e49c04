package repositories

import (
	"errors"

	"skymarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	FindByID(db *gorm.DB, id uint) (*models.Comment, error)
	FindByAdID(db *gorm.DB, adID uint) ([]models.Comment, error)
	Create(db *gorm.DB, comment *models.Comment) error
	Update(db *gorm.DB, comment *models.Comment) error
	Delete(db *gorm.DB, comment *models.Comment) error
	DeleteByAdID(db *gorm.DB, adID uint) error
}

type CommentRepositoryImpl struct{}

func NewCommentRepository() CommentRepository {
	return &CommentRepositoryImpl{}
}

func (r *CommentRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := db.Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepositoryImpl) FindByAdID(db *gorm.DB, adID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := db.Preload("Author").Where("ad_id = ?", adID).Order("id").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepositoryImpl) Create(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

func (r *CommentRepositoryImpl) Update(db *gorm.DB, comment *models.Comment) error {
	return db.Save(comment).Error
}

func (r *CommentRepositoryImpl) Delete(db *gorm.DB, comment *models.Comment) error {
	return db.Delete(comment).Error
}

func (r *CommentRepositoryImpl) DeleteByAdID(db *gorm.DB, adID uint) error {
	return db.Where("ad_id = ?", adID).Delete(&models.Comment{}).Error
}
