package bedrock

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

const systemPrompt = `You are Mira, an empathetic and insightful astrology companion. Your role is to help users understand themselves better through the lens of astrology.

Guidelines:
- Be warm, supportive, and non-judgmental
- Interpret astrological data in an accessible way
- Focus on personal growth and self-understanding
- Avoid making absolute predictions about the future
- Encourage reflection rather than dictating fate
- Keep responses concise but thoughtful (2-4 paragraphs)
- When discussing charts, consider planetary positions, aspects, and houses`

const unknownValue = "Unknown"

// BuildMessages собирает диалог: системная персона и контекст пользователя с вопросом
func BuildMessages(profile *domain.UserProfile, chart domain.ChartData, question string) ([]domain.Message, error) {
	if profile == nil {
		return nil, errors.New("profile is required")
	}

	data := chart.Data
	if data == nil {
		data = map[string]any{}
	}
	aspects := chart.Aspects
	if aspects == nil {
		aspects = []any{}
	}

	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart data: %w", err)
	}
	aspectsJSON, err := json.MarshalIndent(aspects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode aspects: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("User Profile:\n")
	fmt.Fprintf(&sb, "- Zodiac Sign: %s\n", orUnknown(profile.ZodiacSign))
	fmt.Fprintf(&sb, "- Birth Date: %s\n", orUnknown(profile.BirthDate))
	fmt.Fprintf(&sb, "- Birth Location: %s\n", orUnknown(profile.BirthLocation))
	sb.WriteString("\nBirth Chart Data:\n")
	sb.Write(dataJSON)
	sb.WriteString("\n\nAspects:\n")
	sb.Write(aspectsJSON)
	sb.WriteString("\n")
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)

	return []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: sb.String()},
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}
