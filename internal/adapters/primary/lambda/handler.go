package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

type router interface {
	Handle(ctx context.Context, req *domain.Request) *domain.Response
	WithCORS(resp *domain.Response)
}

// Handler конвертирует события API Gateway (HTTP API v2 и REST v1) и событие прогрева
type Handler struct {
	router router
	Log    *slog.Logger
}

func NewHandler(router router, log *slog.Logger) *Handler {
	return &Handler{
		router: router,
		Log:    log,
	}
}

// Invoke точка входа для lambda.Start
func (h *Handler) Invoke(ctx context.Context, payload json.RawMessage) (events.APIGatewayV2HTTPResponse, error) {
	var event map[string]any
	if err := json.Unmarshal(payload, &event); err != nil || event == nil {
		h.Log.Error("failed to decode lambda event", "error", err)
		return h.reject(domain.InternalError()), nil
	}

	req, err := ToRequest(ctx, event)
	if err != nil {
		h.Log.Warn("failed to decode request body", "error", err)
		return h.reject(domain.InvalidJSON()), nil
	}

	return toGatewayResponse(h.Log, h.router.Handle(ctx, req)), nil
}

// reject ответ, который не дошёл до роутера
func (h *Handler) reject(resp *domain.Response) events.APIGatewayV2HTTPResponse {
	h.router.WithCORS(resp)
	return toGatewayResponse(h.Log, resp)
}

// ToRequest нормализует событие шлюза в запрос роутера
func ToRequest(ctx context.Context, event map[string]any) (*domain.Request, error) {
	requestContext, _ := event["requestContext"].(map[string]any)

	if source, _ := event["source"].(string); source == domain.KeepaliveSource && requestContext == nil {
		return &domain.Request{
			ID:     requestID(ctx, nil),
			Source: source,
			Event:  event,
		}, nil
	}

	req := &domain.Request{
		ID:      requestID(ctx, requestContext),
		Headers: headers(event["headers"]),
		Event:   event,
	}

	if rawPath, ok := event["rawPath"].(string); ok {
		req.Path = rawPath
		if httpCtx, ok := requestContext["http"].(map[string]any); ok {
			req.Method, _ = httpCtx["method"].(string)
		}
	} else {
		req.Path, _ = event["path"].(string)
		req.Method, _ = event["httpMethod"].(string)
	}
	req.Method = strings.ToUpper(req.Method)

	if body, ok := event["body"].(string); ok && body != "" {
		if encoded, _ := event["isBase64Encoded"].(bool); encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return nil, err
			}
			req.Body = decoded
		} else {
			req.Body = []byte(body)
		}
	}

	return req, nil
}

func requestID(ctx context.Context, requestContext map[string]any) string {
	if id, ok := requestContext["requestId"].(string); ok && id != "" {
		return id
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

func headers(raw any) map[string]string {
	m, _ := raw.(map[string]any)
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[strings.ToLower(k)] = s
		}
	}
	return out
}

func toGatewayResponse(log *slog.Logger, resp *domain.Response) events.APIGatewayV2HTTPResponse {
	out := events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	}

	if resp.Body == nil {
		return out
	}

	body, err := json.Marshal(resp.Body)
	if err != nil {
		log.Error("failed to encode response body", "error", err)
		out.StatusCode = http.StatusInternalServerError
		body, _ = json.Marshal(domain.InternalError().Body)
	}
	out.Body = string(body)
	return out
}
