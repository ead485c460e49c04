package dto

// CommentDto - комментарий с денормализованными данными автора
type CommentDto struct {
	Author          uint   `json:"author"`
	AuthorImage     string `json:"authorImage"`
	AuthorFirstName string `json:"authorFirstName"`
	CreatedAt       int64  `json:"createdAt"` // epoch millis
	Pk              uint   `json:"pk"`
	Text            string `json:"text"`
}

// CommentsDto - список комментариев объявления
type CommentsDto struct {
	Count   int          `json:"count"`
	Results []CommentDto `json:"results"`
}

// CreateOrUpdateCommentDto - тело запроса создания/изменения комментария
type CreateOrUpdateCommentDto struct {
	Text string `json:"text" validate:"required,min=8,max=64"`
}
