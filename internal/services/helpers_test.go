package services_test

import (
	"bytes"
	"testing"

	"skymarket_backend/internal/auth"
	"skymarket_backend/internal/database"
	"skymarket_backend/internal/models"
	"skymarket_backend/internal/repositories"
	"skymarket_backend/internal/services"
	"skymarket_backend/internal/storage"
	"skymarket_backend/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv собирает сервисы поверх чистой in-memory базы
// и файлового хранилища во временной директории.
type testEnv struct {
	db       *gorm.DB
	users    repositories.UserRepository
	ads      services.AdService
	comments services.CommentService
	profile  services.UserService
	authSvc  services.AuthService
	images   services.ImageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	st, err := storage.NewStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/images"})
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository()
	adRepo := repositories.NewAdRepository()
	commentRepo := repositories.NewCommentRepository()
	imageService := services.NewImageService(st)

	return &testEnv{
		db:       db,
		users:    userRepo,
		ads:      services.NewAdService(db, adRepo, userRepo, commentRepo, imageService),
		comments: services.NewCommentService(db, commentRepo, adRepo, userRepo),
		profile:  services.NewUserService(db, userRepo, imageService),
		authSvc:  services.NewAuthService(db, userRepo, "test-secret", 3600000000000),
		images:   imageService,
	}
}

func (e *testEnv) createUser(t *testing.T, email, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Phone:        "+79990000000",
		Role:         role,
		Enabled:      true,
	}
	require.NoError(t, e.users.Create(e.db, user))
	return user
}

func jpegUpload(name string, payload []byte) *services.ImageUpload {
	return &services.ImageUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(payload)),
		Reader:      bytes.NewReader(payload),
	}
}

func requireHTTPCode(t *testing.T, err error, want int) {
	t.Helper()

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	require.Equal(t, want, appErr.HTTPCode)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
