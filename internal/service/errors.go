package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Сообщения, которые видит клиент.
const (
	MsgActivityNotFound = "Activity not found"
	MsgAlreadySignedUp  = "Student already signed up for this activity"
	MsgNotSignedUp      = "Student is not signed up for this activity"
)

// Коды доменных ошибок.
const (
	CodeActivityNotFound = "ACTIVITY_NOT_FOUND"
	CodeAlreadySignedUp  = "ALREADY_SIGNED_UP"
	CodeNotSignedUp      = "NOT_SIGNED_UP"
)

// AppError описывает прикладную ошибку сервиса:
// код для клиента, человекочитаемое сообщение, HTTP-статус и вложенная ошибка.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

// Error реализует интерфейс error для AppError.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для поддержки errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrUnprocessable конструирует AppError для запроса без обязательного параметра.
func ErrUnprocessable(msg string) *AppError {
	return &AppError{
		Code:    "UNPROCESSABLE",
		Message: msg,
		Status:  http.StatusUnprocessableEntity,
	}
}

// ErrNotFound конструирует AppError для ситуации, когда занятие не найдено
// или студент не записан на него.
func ErrNotFound(code, msg string) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Status:  http.StatusNotFound,
	}
}

// ErrConflict конструирует AppError для повторной записи на занятие.
// Клиенту отдаётся 400, этот статус ожидает фронтенд.
func ErrConflict(msg string) *AppError {
	return &AppError{
		Code:    CodeAlreadySignedUp,
		Message: msg,
		Status:  http.StatusBadRequest,
	}
}

func errInternal(msg string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL",
		Message: msg,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// IsNotFound помогает определить, соответствует ли ошибка HTTP-статусу 404.
func IsNotFound(err error) bool {
	var app *AppError
	if errors.As(err, &app) {
		return app.Status == http.StatusNotFound
	}
	return false
}

// IsConflict сообщает, что студент уже записан на занятие.
func IsConflict(err error) bool {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code == CodeAlreadySignedUp
	}
	return false
}
