package domain

import (
	"errors"
	"fmt"
	"strings"
)

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

// ErrIdentity любая неудача извлечения личности, детали структуры события наружу не отдаются
var ErrIdentity = errors.New("Unable to extract user identity from request")

var ErrProfileNotFound = errors.New("profile not found")

// ValidationError ошибка валидации конкретного поля
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed for %s: %s", e.Field, e.Reason)
}

// StoreError классифицированная ошибка хранилища профилей
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GenerationStage этап, на котором упала генерация
type GenerationStage string

const (
	StageInit        GenerationStage = "init"
	StagePromptBuild GenerationStage = "prompt_build"
	StageTransport   GenerationStage = "transport"
	StageParse       GenerationStage = "parse"
)

// GenerationError единственный тип ошибки клиента модели
type GenerationError struct {
	Stage   GenerationStage
	Message string
	Code    string // код удалённой стороны, только для transport
	Details string
	Err     error
}

func (e *GenerationError) Error() string {
	parts := []string{e.Message}
	if e.Code != "" {
		parts = append(parts, "Code: "+e.Code)
	}
	if e.Details != "" {
		parts = append(parts, "Details: "+e.Details)
	}
	if e.Err != nil {
		parts = append(parts, "Original: "+e.Err.Error())
	}
	return strings.Join(parts, " | ")
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
