package models

type Ad struct {
	BaseModel
	AuthorID    uint   `gorm:"not null;index"`
	Author      User   `gorm:"foreignKey:AuthorID"`
	Title       string `gorm:"size:90;not null"`
	Price       int    `gorm:"not null"`
	Description string `gorm:"size:255"`
	ImageURL    string `gorm:"not null"` // логический путь /images/ads/...

	Comments []Comment `gorm:"foreignKey:AdID"`
}
