package services_test

import (
	"context"
	"testing"

	"skymarket_backend/internal/models"
	"skymarket_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@example.com", "password123", models.UserRoleUser)

	profile, err := env.profile.GetCurrentUser(context.Background(), "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "user@example.com", profile.Email)
	assert.Equal(t, "Ivan", profile.FirstName)
	assert.Equal(t, "USER", profile.Role)

	_, err = env.profile.GetCurrentUser(context.Background(), "ghost@example.com")
	requireHTTPCode(t, err, 404)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com", "password123", models.UserRoleUser)
	ctx := context.Background()

	// неверный текущий пароль
	err := env.profile.UpdatePassword(ctx, "user@example.com", dto.NewPasswordDto{
		CurrentPassword: "wrongpassword",
		NewPassword:     "newpassword1",
	})
	requireHTTPCode(t, err, 403)

	// новый пароль совпадает со старым
	err = env.profile.UpdatePassword(ctx, "user@example.com", dto.NewPasswordDto{
		CurrentPassword: "password123",
		NewPassword:     "password123",
	})
	requireHTTPCode(t, err, 400)

	// успешная смена: старый пароль перестает работать
	err = env.profile.UpdatePassword(ctx, "user@example.com", dto.NewPasswordDto{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	})
	require.NoError(t, err)

	_, err = env.authSvc.Login(ctx, "user@example.com", "password123")
	requireHTTPCode(t, err, 401)

	_, err = env.authSvc.Login(ctx, "user@example.com", "newpassword1")
	require.NoError(t, err)
}

func TestUpdateUser_Partial(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com", "password123", models.UserRoleUser)
	ctx := context.Background()

	applied, err := env.profile.UpdateUser(ctx, "user@example.com", dto.UpdateUserDto{
		FirstName: strPtr("Pyotr"),
	})
	require.NoError(t, err)

	// ответ содержит итоговые значения, не только измененные
	require.NotNil(t, applied.FirstName)
	assert.Equal(t, "Pyotr", *applied.FirstName)
	require.NotNil(t, applied.LastName)
	assert.Equal(t, "Petrov", *applied.LastName)
	require.NotNil(t, applied.Phone)
	assert.Equal(t, "+79990000000", *applied.Phone)

	profile, err := env.profile.GetCurrentUser(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Pyotr", profile.FirstName)
	assert.Equal(t, "Petrov", profile.LastName)
}

func TestUpdateUserImage(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com", "password123", models.UserRoleUser)
	ctx := context.Background()

	require.NoError(t, env.profile.UpdateUserImage(ctx, "user@example.com", jpegUpload("avatar.jpg", []byte{5, 5})))

	profile, err := env.profile.GetCurrentUser(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Contains(t, profile.Image, "/images/avatars/")
	firstPath := profile.Image

	// замена аватара вычищает старый файл
	require.NoError(t, env.profile.UpdateUserImage(ctx, "user@example.com", jpegUpload("avatar2.jpg", []byte{6, 6})))

	profile, err = env.profile.GetCurrentUser(ctx, "user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, firstPath, profile.Image)

	_, err = env.images.LoadImage(ctx, firstPath)
	requireHTTPCode(t, err, 404)

	err = env.profile.UpdateUserImage(ctx, "user@example.com", jpegUpload("bad.jpg", nil))
	requireHTTPCode(t, err, 400)
}
