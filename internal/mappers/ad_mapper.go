package mappers

import (
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/services/dto"
)

// AdToAdDto собирает краткое DTO объявления
func AdToAdDto(ad *models.Ad) dto.AdDto {
	return dto.AdDto{
		Author: ad.AuthorID,
		Image:  ad.ImageURL,
		Pk:     ad.ID,
		Price:  ad.Price,
		Title:  ad.Title,
	}
}

// AdsToAdsDto собирает список с количеством
func AdsToAdsDto(ads []models.Ad) dto.AdsDto {
	results := make([]dto.AdDto, 0, len(ads))
	for i := range ads {
		results = append(results, AdToAdDto(&ads[i]))
	}
	return dto.AdsDto{
		Count:   len(results),
		Results: results,
	}
}

// AdToExtendedAdDto добавляет к объявлению контакты автора
func AdToExtendedAdDto(ad *models.Ad) dto.ExtendedAdDto {
	return dto.ExtendedAdDto{
		Pk:              ad.ID,
		AuthorFirstName: ad.Author.FirstName,
		AuthorLastName:  ad.Author.LastName,
		Description:     ad.Description,
		Email:           ad.Author.Email,
		Image:           ad.ImageURL,
		Phone:           ad.Author.Phone,
		Price:           ad.Price,
		Title:           ad.Title,
	}
}
