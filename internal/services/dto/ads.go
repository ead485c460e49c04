package dto

// AdDto - краткое представление объявления.
// Поле author содержит ID автора.
type AdDto struct {
	Author uint   `json:"author"`
	Image  string `json:"image"`
	Pk     uint   `json:"pk"`
	Price  int    `json:"price"`
	Title  string `json:"title"`
}

// AdsDto - список объявлений с количеством
type AdsDto struct {
	Count   int     `json:"count"`
	Results []AdDto `json:"results"`
}

// ExtendedAdDto - объявление вместе с контактами автора
type ExtendedAdDto struct {
	Pk              uint   `json:"pk"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Description     string `json:"description"`
	Email           string `json:"email"`
	Image           string `json:"image"`
	Phone           string `json:"phone"`
	Price           int    `json:"price"`
	Title           string `json:"title"`
}

// CreateOrUpdateAdDto используется и при создании, и при частичном
// обновлении: nil-поля при PATCH не трогаются.
type CreateOrUpdateAdDto struct {
	Title       *string `json:"title" validate:"omitempty,min=4,max=90"`
	Price       *int    `json:"price" validate:"omitempty,gt=0"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}
