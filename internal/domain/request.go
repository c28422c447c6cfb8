package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// KeepaliveSource тег системного события прогрева, HTTP-запрос его выставить не может
const KeepaliveSource = "mira.keepalive"

// Request нормализованный входящий запрос, общий для Lambda и локального gin-шлюза
type Request struct {
	ID      string
	Path    string
	Method  string
	Headers map[string]string
	Body    []byte

	// Source заполняется только для системных событий (EventBridge, внутренний прогрев)
	Source string

	// Event исходное событие шлюза, из него извлекаются claims авторизатора
	Event map[string]any
}

func (r *Request) IsKeepalive() bool {
	return r.Source == KeepaliveSource
}

// Response ответ роутера, тело сериализуется в JSON адаптером
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       any
}

func NewResponse(status int, body any) *Response {
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// ErrorBody единый формат ошибки {"error": {"code", "message", "details"}}
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorDetails детали ошибки валидации или хранилища
type ErrorDetails struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func NewErrorResponse(status int, code, message string, details any) *Response {
	return NewResponse(status, ErrorBody{
		Error: ErrorPayload{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Коды ошибок API
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeProfileNotFound  = "PROFILE_NOT_FOUND"
	CodeAIError          = "AI_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

func Unauthorized() *Response {
	return NewErrorResponse(http.StatusUnauthorized, CodeUnauthorized, ErrIdentity.Error(), nil)
}

func InvalidJSON() *Response {
	return NewErrorResponse(http.StatusBadRequest, CodeInvalidJSON, "Request body must be valid JSON", nil)
}

func InternalError() *Response {
	return NewErrorResponse(http.StatusInternalServerError, CodeInternalError, "An unexpected error occurred", nil)
}

// JSONObject разбирает тело как JSON-объект, пустое тело считается {}
func (r *Request) JSONObject() (map[string]any, error) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return map[string]any{}, nil
	}

	var body map[string]any
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("request body is not a JSON object")
	}
	return body, nil
}
