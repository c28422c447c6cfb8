package identity

import (
	"log/slog"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// Extractor достаёт sub/email из claims, уже проверенных авторизатором шлюза.
// Поддерживает HTTP API JWT-авторизатор (authorizer.jwt.claims) и
// lambda-авторизатор (authorizer.claims), событие может быть обёрнуто в raw_event.
type Extractor struct {
	Log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{Log: log}
}

func (e *Extractor) Extract(event map[string]any) (domain.Identity, error) {
	claims, shape, ok := findClaims(event)
	if !ok {
		e.Log.Debug("authorizer claims not found", "event_keys", keys(unwrap(event)))
		return domain.Identity{}, domain.ErrIdentity
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		e.Log.Debug("sub claim missing or not a string", "claims_shape", shape)
		return domain.Identity{}, domain.ErrIdentity
	}

	email, _ := claims["email"].(string)

	e.Log.Debug("identity extracted", "user_id", sub, "claims_shape", shape)

	return domain.Identity{UserID: sub, Email: email}, nil
}

// findClaims порядок проверки: jwt.claims, затем claims
func findClaims(event map[string]any) (map[string]any, string, bool) {
	event = unwrap(event)

	requestContext, ok := event["requestContext"].(map[string]any)
	if !ok {
		return nil, "", false
	}
	authorizer, ok := requestContext["authorizer"].(map[string]any)
	if !ok {
		return nil, "", false
	}

	if jwt, ok := authorizer["jwt"].(map[string]any); ok {
		if claims, ok := jwt["claims"].(map[string]any); ok {
			return claims, "jwt", true
		}
	}

	if claims, ok := authorizer["claims"].(map[string]any); ok {
		return claims, "lambda", true
	}

	return nil, "", false
}

func unwrap(event map[string]any) map[string]any {
	if raw, ok := event["raw_event"]; ok {
		inner, _ := raw.(map[string]any)
		return inner
	}
	return event
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
