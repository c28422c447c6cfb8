package gatewayController

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	lambdaAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/lambda"
	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

type router interface {
	Handle(ctx context.Context, req *domain.Request) *domain.Response
	WithCORS(resp *domain.Response)
}

// GatewayController локальная замена API Gateway: собирает событие HTTP API v2
// с claims JWT-авторизатора и отдаёт его роутеру
type GatewayController struct {
	cfg    *Config
	router router
	log    *slog.Logger
}

func New(cfg *Config, router router, log *slog.Logger) *GatewayController {
	return &GatewayController{
		cfg:    cfg,
		router: router,
		log:    log,
	}
}

func (c *GatewayController) RegisterRoutes(r *gin.Engine) {
	r.NoRoute(c.forward)
}

func (c *GatewayController) forward(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		c.log.Warn("failed to read request body", "error", err)
		c.reject(ctx, domain.InvalidJSON())
		return
	}

	event := c.buildEvent(ctx, body)

	req, err := lambdaAdapter.ToRequest(ctx.Request.Context(), event)
	if err != nil {
		c.reject(ctx, domain.InvalidJSON())
		return
	}

	c.write(ctx, c.router.Handle(ctx.Request.Context(), req))
}

func (c *GatewayController) buildEvent(ctx *gin.Context, body []byte) map[string]any {
	headers := make(map[string]any, len(ctx.Request.Header))
	for name := range ctx.Request.Header {
		headers[strings.ToLower(name)] = ctx.Request.Header.Get(name)
	}

	requestID := ctx.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	requestContext := map[string]any{
		"requestId": requestID,
		"http": map[string]any{
			"method":   ctx.Request.Method,
			"path":     ctx.Request.URL.Path,
			"sourceIp": ctx.ClientIP(),
		},
	}

	if claims, err := c.claims(ctx.GetHeader("Authorization")); err != nil {
		c.log.Debug("authorization token rejected", "error", err)
	} else if claims != nil {
		requestContext["authorizer"] = map[string]any{
			"jwt": map[string]any{"claims": claims},
		}
	}

	return map[string]any{
		"version":         "2.0",
		"rawPath":         ctx.Request.URL.Path,
		"rawQueryString":  ctx.Request.URL.RawQuery,
		"headers":         headers,
		"body":            string(body),
		"isBase64Encoded": false,
		"requestContext":  requestContext,
	}
}

// claims разбирает Bearer-токен, nil без ошибки если заголовка нет
func (c *GatewayController) claims(header string) (map[string]any, error) {
	if header == "" {
		return nil, nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("authorization header is not a bearer token")
	}
	raw = strings.TrimSpace(raw)

	claims := jwt.MapClaims{}

	if c.cfg.JWTSecret == "" {
		if !c.cfg.InsecureSkipVerify {
			return nil, fmt.Errorf("token verification is not configured")
		}
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
		return map[string]any(claims), nil
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(c.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return map[string]any(claims), nil
}

func (c *GatewayController) reject(ctx *gin.Context, resp *domain.Response) {
	c.router.WithCORS(resp)
	c.write(ctx, resp)
}

func (c *GatewayController) write(ctx *gin.Context, resp *domain.Response) {
	for name, value := range resp.Headers {
		ctx.Header(name, value)
	}

	if resp.Body == nil {
		ctx.Status(resp.StatusCode)
		return
	}

	body, err := json.Marshal(resp.Body)
	if err != nil {
		c.log.Error("failed to encode response body", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.Data(resp.StatusCode, "application/json", body)
}
