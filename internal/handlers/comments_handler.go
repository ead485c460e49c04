package handlers

import (
	"net/http"

	"skymarket_backend/internal/services"
	"skymarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CommentsHandler struct {
	*BaseHandler
	commentService services.CommentService
}

func NewCommentsHandler(base *BaseHandler, commentService services.CommentService) *CommentsHandler {
	return &CommentsHandler{
		BaseHandler:    base,
		commentService: commentService,
	}
}

// RegisterRoutes вешает маршруты комментариев под объявлением.
// Чтение публичное, мутации - за авторизацией.
func (h *CommentsHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("/ads/:id/comments", h.GetComments)

	comments := rg.Group("/ads/:id/comments")
	comments.Use(authRequired)
	{
		comments.POST("", h.AddComment)
		comments.PATCH("/:commentId", h.UpdateComment)
		comments.DELETE("/:commentId", h.DeleteComment)
	}
}

func (h *CommentsHandler) GetComments(c *gin.Context) {
	adID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	result, err := h.commentService.GetCommentsByAdID(c.Request.Context(), adID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CommentsHandler) AddComment(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	adID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateOrUpdateCommentDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	created, err := h.commentService.AddComment(c.Request.Context(), adID, req, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, created)
}

func (h *CommentsHandler) UpdateComment(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	commentID, err := ParseParamUint(c, "commentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateOrUpdateCommentDto
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	updated, err := h.commentService.UpdateComment(c.Request.Context(), commentID, req, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CommentsHandler) DeleteComment(c *gin.Context) {
	email, ok := h.GetAndAuthorizeEmail(c)
	if !ok {
		return
	}

	commentID, err := ParseParamUint(c, "commentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), commentID, email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
