package domain

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message одно сообщение диалога с моделью, не сохраняется
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationOptions параметры генерации, nil означает значение из конфигурации
type GenerationOptions struct {
	MaxTokens   *int
	Temperature *float64
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// AIResponse нормализованный ответ модели
type AIResponse struct {
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
	Model    string `json:"model"`
}

// ChatInput провалидированное тело POST /chat
type ChatInput struct {
	Question string
	Options  GenerationOptions
}
