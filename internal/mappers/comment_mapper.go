package mappers

import (
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/services/dto"
)

// CommentToCommentDto денормализует имя и аватар автора в DTO
func CommentToCommentDto(comment *models.Comment) dto.CommentDto {
	return dto.CommentDto{
		Author:          comment.AuthorID,
		AuthorImage:     comment.Author.Image,
		AuthorFirstName: comment.Author.FirstName,
		CreatedAt:       comment.PostedAt,
		Pk:              comment.ID,
		Text:            comment.Text,
	}
}

// CommentsToCommentsDto собирает список с количеством
func CommentsToCommentsDto(comments []models.Comment) dto.CommentsDto {
	results := make([]dto.CommentDto, 0, len(comments))
	for i := range comments {
		results = append(results, CommentToCommentDto(&comments[i]))
	}
	return dto.CommentsDto{
		Count:   len(results),
		Results: results,
	}
}
