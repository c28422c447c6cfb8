package domain

import "time"

const EventProfileCreated = "profile.created"

// ProfileEvent событие о сохранённом профиле, ключ сообщения - user_id
type ProfileEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
