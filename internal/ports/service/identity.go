package service

import "github.com/ErdunE/mira-astrology-companion/internal/domain"

// IIdentityExtractor извлекает личность из события шлюза
type IIdentityExtractor interface {
	Extract(event map[string]any) (domain.Identity, error)
}
