package app

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skymarket_backend/internal/config"
	"skymarket_backend/internal/database"
	"skymarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/images"
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.CORS.AllowedOrigin = "http://localhost:3000"
	return cfg
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return SetupRouter(testConfig(t), db), db
}

func doJSON(router *gin.Engine, method, path, authorization string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func basicAuth(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func registerUser(t *testing.T, router *gin.Engine, email, password, role string) {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/register", "", dto.RegisterDto{
		Username:  email,
		Password:  password,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Phone:     "+79990000000",
		Role:      role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// createAdMultipart шлет объявление так, как это делает фронтенд:
// JSON-часть properties и файловая часть image.
func createAdMultipart(t *testing.T, router *gin.Engine, authorization, title string, price int, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	props := fmt.Sprintf(`{"title":%q,"price":%d,"description":"good condition"}`, title, price)
	require.NoError(t, mw.WriteField("properties", props))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", authorization)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginFlow(t *testing.T) {
	router, _ := newTestServer(t)

	registerUser(t, router, "user@example.com", "password123", "")

	// повторная регистрация того же email
	w := doJSON(router, http.MethodPost, "/register", "", dto.RegisterDto{
		Username:  "user@example.com",
		Password:  "password123",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Phone:     "+79990000000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/login", "", dto.LoginDto{Username: "user@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.AccessToken)

	w = doJSON(router, http.MethodPost, "/login", "", dto.LoginDto{Username: "user@example.com", Password: "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// выданный токен работает как Bearer
	w = doJSON(router, http.MethodGet, "/users/me", "Bearer "+login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_InvalidBody(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/register", "", map[string]string{
		"username": "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdLifecycle(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "seller@example.com", "password123", "")
	seller := basicAuth("seller@example.com", "password123")

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x11, 0x22, 0x33}
	w := createAdMultipart(t, router, seller, "Bike", 10000, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ad dto.AdDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ad))
	assert.NotZero(t, ad.Pk)
	assert.Equal(t, "Bike", ad.Title)
	assert.Equal(t, 10000, ad.Price)
	assert.True(t, strings.HasPrefix(ad.Image, "/images/ads/"), "got %s", ad.Image)

	// список доступен без авторизации
	w = doJSON(router, http.MethodGet, "/ads", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.AdsDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	// карточка тоже доступна без авторизации
	adPath := fmt.Sprintf("/ads/%d", ad.Pk)
	w = doJSON(router, http.MethodGet, adPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/ads/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, adPath, seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var extended dto.ExtendedAdDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &extended))
	assert.Equal(t, "Bike", extended.Title)
	assert.Equal(t, "seller@example.com", extended.Email)
	assert.Equal(t, "Ivan", extended.AuthorFirstName)

	// картинка раздается публично и байт в байт
	w = doJSON(router, http.MethodGet, ad.Image, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

	// частичное обновление
	w = doJSON(router, http.MethodPatch, adPath, seller, map[string]any{"price": 9000})
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.AdDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 9000, updated.Price)
	assert.Equal(t, "Bike", updated.Title)

	// /ads/me
	w = doJSON(router, http.MethodGet, "/ads/me", seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestAdMissingImagePart(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "seller@example.com", "password123", "")
	seller := basicAuth("seller@example.com", "password123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("properties", `{"title":"Bike","price":100}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", seller)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAdAuthorization(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "owner@example.com", "password123", "")
	registerUser(t, router, "stranger@example.com", "password123", "")
	registerUser(t, router, "admin@example.com", "password123", "ADMIN")

	owner := basicAuth("owner@example.com", "password123")
	stranger := basicAuth("stranger@example.com", "password123")
	admin := basicAuth("admin@example.com", "password123")

	w := createAdMultipart(t, router, owner, "Bike", 10000, []byte{1, 2, 3})
	require.Equal(t, http.StatusCreated, w.Code)
	var ad dto.AdDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ad))
	adPath := fmt.Sprintf("/ads/%d", ad.Pk)

	// чужой пользователь получает 403
	w = doJSON(router, http.MethodDelete, adPath, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// администратор удаляет чужое объявление
	w = doJSON(router, http.MethodDelete, adPath, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, adPath, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCannotPostAds(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "admin@example.com", "password123", "ADMIN")

	w := createAdMultipart(t, router, basicAuth("admin@example.com", "password123"), "Bike", 100, []byte{1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentsFlow(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "seller@example.com", "password123", "")
	registerUser(t, router, "buyer@example.com", "password123", "")
	seller := basicAuth("seller@example.com", "password123")
	buyer := basicAuth("buyer@example.com", "password123")

	w := createAdMultipart(t, router, seller, "Bike", 10000, []byte{1})
	require.Equal(t, http.StatusCreated, w.Code)
	var ad dto.AdDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ad))
	commentsPath := fmt.Sprintf("/ads/%d/comments", ad.Pk)

	// чтение комментариев публичное
	w = doJSON(router, http.MethodGet, commentsPath, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// а вот добавить без авторизации нельзя
	w = doJSON(router, http.MethodPost, commentsPath, "", dto.CreateOrUpdateCommentDto{Text: "is it available?"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// слишком короткий текст режет валидация
	w = doJSON(router, http.MethodPost, commentsPath, buyer, dto.CreateOrUpdateCommentDto{Text: "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, commentsPath, buyer, dto.CreateOrUpdateCommentDto{Text: "is it available?"})
	require.Equal(t, http.StatusOK, w.Code)
	var comment dto.CommentDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.NotZero(t, comment.Pk)
	assert.Positive(t, comment.CreatedAt)

	w = doJSON(router, http.MethodGet, commentsPath, seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.CommentsDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	commentPath := fmt.Sprintf("%s/%d", commentsPath, comment.Pk)

	// продавец не может править чужой комментарий
	w = doJSON(router, http.MethodPatch, commentPath, seller, dto.CreateOrUpdateCommentDto{Text: "edited text"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPatch, commentPath, buyer, dto.CreateOrUpdateCommentDto{Text: "edited text"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, commentPath, buyer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// комментарии несуществующего объявления
	w = doJSON(router, http.MethodGet, "/ads/99999/comments", buyer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersMeFlow(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "user@example.com", "password123", "")
	user := basicAuth("user@example.com", "password123")

	w := doJSON(router, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/users/me", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile dto.UserDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "user@example.com", profile.Email)
	assert.Equal(t, "USER", profile.Role)

	w = doJSON(router, http.MethodPatch, "/users/me", user, map[string]string{"firstName": "Pyotr"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/users/me", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Pyotr", profile.FirstName)
}

func TestSetPasswordFlow(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "user@example.com", "password123", "")
	user := basicAuth("user@example.com", "password123")

	w := doJSON(router, http.MethodPost, "/users/set_password", user, dto.NewPasswordDto{
		CurrentPassword: "wrongpassword",
		NewPassword:     "newpassword1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPost, "/users/set_password", user, dto.NewPasswordDto{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// старые учетные данные больше не работают
	w = doJSON(router, http.MethodGet, "/users/me", user, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/users/me", basicAuth("user@example.com", "newpassword1"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAvatarUpload(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "user@example.com", "password123", "")
	user := basicAuth("user@example.com", "password123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users/me/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// путь к аватару появляется в профиле, файл раздается публично
	resp := doJSON(router, http.MethodGet, "/users/me", user, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var profile dto.UserDto
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &profile))
	require.True(t, strings.HasPrefix(profile.Image, "/images/avatars/"), "got %s", profile.Image)

	resp = doJSON(router, http.MethodGet, profile.Image, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
}

func TestImageNotFound(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/images/ads/img_0_0.jpg", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageTraversalRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// корень хранилища вложен, а секрет лежит уровнем выше
	base := t.TempDir()
	cfg := testConfig(t)
	cfg.Storage.BasePath = filepath.Join(base, "uploads")
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.txt"), []byte("db-password"), 0o600))

	router := SetupRouter(cfg, db)

	for _, path := range []string{
		"/images/../secret.txt",
		"/images/..%2Fsecret.txt",
		"/images/ads/..%2F..%2Fsecret.txt",
	} {
		w := doJSON(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
		assert.NotContains(t, w.Body.String(), "db-password")
	}
}

func TestSeedFirstAdmin(t *testing.T) {
	_, db := newTestServer(t)

	cfg := testConfig(t)
	cfg.FirstAdminEmail = "root@example.com"
	cfg.FirstAdminPassword = "rootpassword"

	require.NoError(t, seedFirstAdmin(db, cfg))
	// повторный запуск не создает дубликат
	require.NoError(t, seedFirstAdmin(db, cfg))

	var count int64
	require.NoError(t, db.Table("users").Where("email = ?", "root@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/ads", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
