package apperrors

import (
	"net/http"
)

// Фабрики доменных ошибок маркетплейса.

// ErrAdNotFound - объявление не найдено (404)
func ErrAdNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "ads", "Ad not found", http.StatusNotFound)
}

// ErrCommentNotFound - комментарий не найден (404)
func ErrCommentNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "comments", "Comment not found", http.StatusNotFound)
}

// ErrUserNotFound - пользователь не найден (404)
func ErrUserNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "users", "User not found", http.StatusNotFound)
}

// ErrAdAccessDenied - нет прав на изменение объявления (403)
func ErrAdAccessDenied() *AppError {
	return New(CodeForbidden, "ads", "No rights to modify this ad", http.StatusForbidden)
}

// ErrCommentAccessDenied - нет прав на изменение комментария (403)
func ErrCommentAccessDenied() *AppError {
	return New(CodeForbidden, "comments", "No rights to modify this comment", http.StatusForbidden)
}

// ErrEmailAlreadyUsed - email уже зарегистрирован.
// Отдаем 400, как и контроллер регистрации в исходном контракте.
func ErrEmailAlreadyUsed() *AppError {
	return New(CodeAlreadyExists, "auth", "Email is already registered", http.StatusBadRequest)
}

// ErrWrongPassword - неверный текущий пароль (403)
func ErrWrongPassword() *AppError {
	return New(CodeInvalidCredentials, "users", "Current password is incorrect", http.StatusForbidden)
}

// ErrPasswordUnchanged - новый пароль совпадает со старым (400)
func ErrPasswordUnchanged() *AppError {
	return New(CodeValidationFailed, "users", "New password must differ from the current one", http.StatusBadRequest)
}

// ErrImageNotFound - файл изображения отсутствует на диске (404)
func ErrImageNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "images", "Image not found", http.StatusNotFound)
}

// ErrStorage - ошибка файлового хранилища
func ErrStorage(err error, httpCode int) *AppError {
	return Wrap(err, CodeStorageError, "images", "Image storage failure", httpCode)
}
