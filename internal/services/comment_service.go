package services

import (
	"context"
	"strings"
	"time"

	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/mappers"
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/repositories"
	"skymarket_backend/internal/services/dto"
	"skymarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CommentService управляет комментариями объявлений
type CommentService interface {
	GetCommentsByAdID(ctx context.Context, adID uint) (dto.CommentsDto, error)
	AddComment(ctx context.Context, adID uint, req dto.CreateOrUpdateCommentDto, requesterEmail string) (dto.CommentDto, error)
	UpdateComment(ctx context.Context, commentID uint, req dto.CreateOrUpdateCommentDto, requesterEmail string) (dto.CommentDto, error)
	DeleteComment(ctx context.Context, commentID uint, requesterEmail string) error
	IsCommentAuthor(ctx context.Context, commentID uint, email string) bool
}

type CommentServiceImpl struct {
	db       *gorm.DB
	comments repositories.CommentRepository
	ads      repositories.AdRepository
	users    repositories.UserRepository
}

func NewCommentService(db *gorm.DB, comments repositories.CommentRepository,
	ads repositories.AdRepository, users repositories.UserRepository) CommentService {
	return &CommentServiceImpl{
		db:       db,
		comments: comments,
		ads:      ads,
		users:    users,
	}
}

func (s *CommentServiceImpl) GetCommentsByAdID(ctx context.Context, adID uint) (dto.CommentsDto, error) {
	exists, err := s.ads.ExistsByID(s.db, adID)
	if err != nil {
		return dto.CommentsDto{}, apperrors.InternalError(err)
	}
	if !exists {
		return dto.CommentsDto{}, apperrors.ErrAdNotFound(repositories.ErrAdNotFound)
	}

	comments, err := s.comments.FindByAdID(s.db, adID)
	if err != nil {
		return dto.CommentsDto{}, apperrors.InternalError(err)
	}
	return mappers.CommentsToCommentsDto(comments), nil
}

func (s *CommentServiceImpl) AddComment(ctx context.Context, adID uint, req dto.CreateOrUpdateCommentDto, requesterEmail string) (dto.CommentDto, error) {
	if strings.TrimSpace(requesterEmail) == "" {
		return dto.CommentDto{}, apperrors.NewUnauthorizedError("Not authenticated")
	}
	if strings.TrimSpace(req.Text) == "" {
		return dto.CommentDto{}, apperrors.NewBadRequestError("Comment text must not be blank")
	}

	ad, err := s.ads.FindByID(s.db, adID)
	if err != nil {
		return dto.CommentDto{}, apperrors.ErrAdNotFound(err)
	}

	author, err := s.users.FindByEmail(s.db, requesterEmail)
	if err != nil {
		return dto.CommentDto{}, apperrors.NewUnauthorizedError("Unknown account")
	}

	comment := &models.Comment{
		AdID:     ad.ID,
		AuthorID: author.ID,
		Text:     req.Text,
		PostedAt: time.Now().UnixMilli(),
	}
	if err := s.comments.Create(s.db, comment); err != nil {
		return dto.CommentDto{}, apperrors.InternalError(err)
	}
	comment.Author = *author

	logger.CtxInfo(ctx, "comment added", "ad_id", adID, "comment_id", comment.ID)
	return mappers.CommentToCommentDto(comment), nil
}

func (s *CommentServiceImpl) UpdateComment(ctx context.Context, commentID uint, req dto.CreateOrUpdateCommentDto, requesterEmail string) (dto.CommentDto, error) {
	if strings.TrimSpace(req.Text) == "" {
		return dto.CommentDto{}, apperrors.NewBadRequestError("Comment text must not be blank")
	}

	var updated *models.Comment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		comment, err := s.comments.FindByID(tx, commentID)
		if err != nil {
			return apperrors.ErrCommentNotFound(err)
		}

		if err := s.authorizeCommentMutation(tx, comment, requesterEmail); err != nil {
			return err
		}

		comment.Text = req.Text
		if err := s.comments.Update(tx, comment); err != nil {
			return apperrors.InternalError(err)
		}
		updated = comment
		return nil
	})
	if err != nil {
		return dto.CommentDto{}, err
	}

	return mappers.CommentToCommentDto(updated), nil
}

func (s *CommentServiceImpl) DeleteComment(ctx context.Context, commentID uint, requesterEmail string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		comment, err := s.comments.FindByID(tx, commentID)
		if err != nil {
			return apperrors.ErrCommentNotFound(err)
		}

		if err := s.authorizeCommentMutation(tx, comment, requesterEmail); err != nil {
			return err
		}

		return s.comments.Delete(tx, comment)
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(ctx, "comment deleted", "comment_id", commentID, "requester", requesterEmail)
	return nil
}

// IsCommentAuthor - чистый предикат, false для несуществующего комментария
func (s *CommentServiceImpl) IsCommentAuthor(ctx context.Context, commentID uint, email string) bool {
	comment, err := s.comments.FindByID(s.db, commentID)
	if err != nil {
		return false
	}
	return comment.Author.Email == email
}

// authorizeCommentMutation пропускает автора комментария и администратора
func (s *CommentServiceImpl) authorizeCommentMutation(tx *gorm.DB, comment *models.Comment, requesterEmail string) error {
	user, err := s.users.FindByEmail(tx, requesterEmail)
	if err != nil {
		return apperrors.ErrUserNotFound(err)
	}
	if comment.Author.Email != requesterEmail && !user.IsAdmin() {
		return apperrors.ErrCommentAccessDenied()
	}
	return nil
}
