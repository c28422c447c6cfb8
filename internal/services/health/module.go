package health

import (
	"time"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// Service отдаёт статус для GET /health, без обращений к зависимостям
type Service struct {
	name    string
	version string
	now     func() time.Time
}

func New(name, version string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{name: name, version: version, now: now}
}

func (s *Service) Check() domain.Health {
	return domain.Health{
		Status:    "healthy",
		Service:   s.name,
		Version:   s.version,
		Timestamp: s.now().Unix(),
	}
}
