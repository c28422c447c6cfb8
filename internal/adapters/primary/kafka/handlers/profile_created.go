package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	kafkaPorts "github.com/ErdunE/mira-astrology-companion/internal/ports/kafka"
)

type chartGenerator interface {
	GenerateChart(ctx context.Context, userID string) error
}

// ProfileCreatedHandler запускает расчёт карты по событию profile.created
type ProfileCreatedHandler struct {
	Charts chartGenerator
	Log    *slog.Logger
}

func NewProfileCreatedHandler(charts chartGenerator, log *slog.Logger) kafkaPorts.MessageHandler {
	return &ProfileCreatedHandler{
		Charts: charts,
		Log:    log,
	}
}

func (h *ProfileCreatedHandler) HandleMessage(ctx context.Context, key string, value []byte, headers map[string]string) error {
	if eventType, ok := headers["event_type"]; ok && eventType != domain.EventProfileCreated {
		h.Log.Debug("skipping foreign event", "event_type", eventType, "key", key)
		return nil
	}

	var event domain.ProfileEvent
	if err := json.Unmarshal(value, &event); err != nil {
		h.Log.Warn("invalid profile event", "error", err, "key", key)
		return domain.WrapBusinessError(fmt.Errorf("failed to unmarshal profile event: %w", err))
	}

	if event.UserID == "" {
		h.Log.Warn("profile event without user_id", "key", key, "event_id", event.EventID)
		return domain.WrapBusinessError(fmt.Errorf("user_id is required in profile event"))
	}

	h.Log.Debug("processing profile event",
		"event_id", event.EventID,
		"user_id", event.UserID,
	)

	if err := h.Charts.GenerateChart(ctx, event.UserID); err != nil {
		return fmt.Errorf("failed to generate chart: %w", err)
	}

	return nil
}
