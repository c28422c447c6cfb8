package validation

import (
	"math"
	"strings"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// chatInput правила для тела POST /chat
type chatInput struct {
	Question    string   `json:"question" validate:"required,max=2000"`
	MaxTokens   *int     `json:"max_tokens" validate:"omitempty,min=1,max=4096"`
	Temperature *float64 `json:"temperature" validate:"omitempty,min=0,max=1"`
}

func (v *Validator) ValidateChat(body map[string]any) (domain.ChatInput, error) {
	var input chatInput

	raw, ok := body["question"]
	if !ok || raw == nil {
		return domain.ChatInput{}, &domain.ValidationError{Field: "question", Reason: "Field is required"}
	}
	question, ok := raw.(string)
	if !ok {
		return domain.ChatInput{}, &domain.ValidationError{Field: "question", Reason: "Must be a string"}
	}
	input.Question = strings.TrimSpace(question)

	if raw, ok := body["max_tokens"]; ok && raw != nil {
		n, ok := raw.(float64)
		if !ok || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return domain.ChatInput{}, &domain.ValidationError{Field: "max_tokens", Reason: "Must be an integer"}
		}
		maxTokens := int(n)
		input.MaxTokens = &maxTokens
	}

	if raw, ok := body["temperature"]; ok && raw != nil {
		temperature, ok := raw.(float64)
		if !ok {
			return domain.ChatInput{}, &domain.ValidationError{Field: "temperature", Reason: "Must be a number"}
		}
		input.Temperature = &temperature
	}

	if err := v.validate.Struct(input); err != nil {
		return domain.ChatInput{}, toValidationError(err)
	}

	return domain.ChatInput{
		Question: input.Question,
		Options: domain.GenerationOptions{
			MaxTokens:   input.MaxTokens,
			Temperature: input.Temperature,
		},
	}, nil
}
