package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"skymarket_backend/internal/logger"
	"skymarket_backend/internal/storage"
	"skymarket_backend/pkg/apperrors"

	"net/http"
)

const (
	SubfolderAds     = "ads"
	SubfolderAvatars = "avatars"
)

// ImageUpload - загружаемый файл, как его видит сервис.
// Хендлеры собирают его из multipart-части запроса.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ImageService сохраняет и отдает изображения объявлений и аватары.
type ImageService interface {
	// SaveImage валидирует файл и кладет его в подпапку хранилища.
	// Возвращает логический путь вида /images/{subfolder}/{filename}.
	SaveImage(ctx context.Context, image *ImageUpload, subfolder string) (string, error)

	// LoadImage читает файл по логическому пути /images/...
	LoadImage(ctx context.Context, imagePath string) ([]byte, error)

	// DeleteImage удаляет файл по логическому пути. Отсутствующий файл - не ошибка.
	DeleteImage(ctx context.Context, imagePath string) error

	// DetermineMediaType выводит MIME-тип из расширения файла
	DetermineMediaType(imagePath string) string

	// DetermineUploadMediaType предпочитает заявленный content type,
	// откатываясь на расширение имени файла
	DetermineUploadMediaType(image *ImageUpload) string
}

type ImageServiceImpl struct {
	storage storage.Storage
}

func NewImageService(st storage.Storage) ImageService {
	return &ImageServiceImpl{storage: st}
}

func (s *ImageServiceImpl) SaveImage(ctx context.Context, image *ImageUpload, subfolder string) (string, error) {
	if image == nil || image.Size == 0 {
		return "", apperrors.NewBadRequestError("Image file is empty")
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return "", apperrors.NewBadRequestError("File must be an image")
	}

	fileName := generateFileName(image.Filename)
	storagePath := subfolder + "/" + fileName

	if err := s.storage.Save(ctx, storagePath, image.Reader, image.ContentType); err != nil {
		return "", apperrors.ErrStorage(err, http.StatusInternalServerError)
	}

	imagePath := "/images/" + storagePath
	logger.CtxDebug(ctx, "image saved", "path", imagePath, "size", image.Size)

	return imagePath, nil
}

func (s *ImageServiceImpl) LoadImage(ctx context.Context, imagePath string) ([]byte, error) {
	storagePath := stripImagePrefix(imagePath)
	if !isSafeStoragePath(storagePath) {
		logger.CtxWarn(ctx, "rejected image path outside storage root", "path", imagePath)
		return nil, apperrors.ErrImageNotFound(os.ErrNotExist)
	}

	reader, err := s.storage.Get(ctx, storagePath)
	if err != nil {
		if os.IsNotExist(err) || apperrors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrImageNotFound(err)
		}
		return nil, apperrors.ErrStorage(err, http.StatusInternalServerError)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.ErrStorage(err, http.StatusInternalServerError)
	}
	return data, nil
}

func (s *ImageServiceImpl) DeleteImage(ctx context.Context, imagePath string) error {
	if imagePath == "" {
		return nil
	}
	storagePath := stripImagePrefix(imagePath)
	if !isSafeStoragePath(storagePath) {
		logger.CtxWarn(ctx, "rejected image path outside storage root", "path", imagePath)
		return nil
	}
	if err := s.storage.Delete(ctx, storagePath); err != nil {
		logger.CtxWarn(ctx, "failed to delete image", "path", imagePath, "error", err.Error())
		return apperrors.ErrStorage(err, http.StatusInternalServerError)
	}
	return nil
}

func (s *ImageServiceImpl) DetermineMediaType(imagePath string) string {
	switch strings.ToLower(path.Ext(imagePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}

func (s *ImageServiceImpl) DetermineUploadMediaType(image *ImageUpload) string {
	if strings.HasPrefix(image.ContentType, "image/") {
		return image.ContentType
	}
	return s.DetermineMediaType(image.Filename)
}

// generateFileName строит имя из префикса, millis-таймштампа и хеша
// исходного имени. Расширение сохраняется, по умолчанию .jpg.
func generateFileName(originalFilename string) string {
	h := fnv.New32a()
	h.Write([]byte(originalFilename))
	return fmt.Sprintf("img_%d_%d%s", time.Now().UnixMilli(), h.Sum32(), fileExtension(originalFilename))
}

func fileExtension(filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		return ".jpg"
	}
	return ext
}

func stripImagePrefix(imagePath string) string {
	return strings.TrimPrefix(imagePath, "/images/")
}

// isSafeStoragePath гарантирует, что логический путь остается внутри
// корня хранилища: без абсолютных путей и ".."-сегментов.
func isSafeStoragePath(storagePath string) bool {
	if storagePath == "" || strings.HasPrefix(storagePath, "/") || strings.Contains(storagePath, "\\") {
		return false
	}
	for _, segment := range strings.Split(storagePath, "/") {
		if segment == ".." || segment == "" {
			return false
		}
	}
	return true
}
