package service

import "github.com/ErdunE/mira-astrology-companion/internal/domain"

type IHealthService interface {
	Check() domain.Health
}
