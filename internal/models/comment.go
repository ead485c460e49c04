package models

type Comment struct {
	BaseModel
	AdID     uint   `gorm:"not null;index"`
	Ad       Ad     `gorm:"foreignKey:AdID"`
	AuthorID uint   `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`
	Text     string `gorm:"size:255;not null"`
	PostedAt int64  `gorm:"not null"` // epoch millis, поле createdAt в DTO
}
