package service

import "github.com/ErdunE/mira-astrology-companion/internal/domain"

// IProfileValidator проверяет и нормализует данные о рождении.
// Ошибка правила возвращается как *domain.ValidationError
type IProfileValidator interface {
	ValidateProfile(body map[string]any) (domain.BirthData, error)
}

// IChatValidator проверяет тело вопроса к модели
type IChatValidator interface {
	ValidateChat(body map[string]any) (domain.ChatInput, error)
}
