// Package http реализует HTTP-обработчики и DTO поверх сервиса записи на занятия.
package http

// errorResponse содержит detail (сообщение для фронтенда) и структурированную ошибку.
type errorResponse struct {
	Detail string    `json:"detail"`
	Error  errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}
