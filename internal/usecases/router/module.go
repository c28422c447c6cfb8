package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/service"
)

type profileFlow interface {
	CreateProfile(ctx context.Context, req *domain.Request) *domain.Response
}

type chatFlow interface {
	Ask(ctx context.Context, req *domain.Request) *domain.Response
}

type handlerFunc func(ctx context.Context, req *domain.Request) *domain.Response

// Router единая точка входа: прогрев, маршрутизация по пути и методу, CORS
type Router struct {
	cfg    *Config
	warmer service.IModelWarmer
	routes map[string]map[string]handlerFunc
	Log    *slog.Logger
}

func New(cfg *Config, health service.IHealthService, profile profileFlow, chat chatFlow, warmer service.IModelWarmer, log *slog.Logger) *Router {
	if cfg == nil {
		cfg = &Config{StagePrefixes: []string{"default"}, CORSOrigin: "*"}
	}

	return &Router{
		cfg:    cfg,
		warmer: warmer,
		routes: map[string]map[string]handlerFunc{
			"/health": {
				http.MethodGet: func(ctx context.Context, req *domain.Request) *domain.Response {
					return domain.NewResponse(http.StatusOK, health.Check())
				},
			},
			"/profile": {
				http.MethodPost: profile.CreateProfile,
			},
			"/chat": {
				http.MethodPost: chat.Ask,
			},
		},
		Log: log,
	}
}

type keepaliveResult struct {
	Warmed bool
}

type keepaliveResponse struct {
	Status  string `json:"status"`
	Bedrock string `json:"bedrock"`
}

type notFoundResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Handle всегда возвращает ровно один ответ, паника превращается в 500
func (r *Router) Handle(ctx context.Context, req *domain.Request) (resp *domain.Response) {
	log := r.Log.With("request_id", req.ID, "path", req.Path, "method", req.Method)
	ctx = logger.WithLogger(ctx, log)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic recovered in router",
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
			)
			resp = domain.InternalError()
		}
		r.WithCORS(resp)
	}()

	if req.IsKeepalive() {
		return r.keepalive(ctx, log)
	}

	path := r.normalizePath(req.Path)

	methods, ok := r.routes[path]
	if !ok {
		log.Info("route not found")
		return domain.NewResponse(http.StatusNotFound, notFoundResponse{
			Error:  "Not found",
			Path:   req.Path,
			Method: req.Method,
		})
	}

	method := strings.ToUpper(req.Method)
	if method == http.MethodOptions {
		resp := domain.NewResponse(http.StatusNoContent, nil)
		resp.Headers["Access-Control-Allow-Methods"] = allowed(methods) + ", OPTIONS"
		resp.Headers["Access-Control-Allow-Headers"] = "Authorization, Content-Type"
		return resp
	}

	handler, ok := methods[method]
	if !ok {
		log.Info("method not allowed")
		resp := domain.NewErrorResponse(http.StatusMethodNotAllowed, domain.CodeMethodNotAllowed, "Method not allowed", nil)
		resp.Headers["Allow"] = allowed(methods)
		return resp
	}

	return handler(ctx, req)
}

func (r *Router) keepalive(ctx context.Context, log *slog.Logger) *domain.Response {
	result := keepaliveResult{Warmed: true}
	if err := r.warmer.Warm(ctx); err != nil {
		log.Warn("keepalive warmup failed", "error", err)
		result.Warmed = false
	}

	status := "connected"
	if !result.Warmed {
		status = "failed"
	}
	log.Debug("keepalive handled", "bedrock", status)

	return domain.NewResponse(http.StatusOK, keepaliveResponse{
		Status:  "warmed",
		Bedrock: status,
	})
}

// normalizePath срезает один префикс стадии и завершающий слэш
func (r *Router) normalizePath(path string) string {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for _, stage := range r.cfg.StagePrefixes {
		stage = strings.Trim(stage, "/ ")
		if stage == "" {
			continue
		}
		prefix := "/" + stage
		if path == prefix {
			path = "/"
			break
		}
		if strings.HasPrefix(path, prefix+"/") {
			path = strings.TrimPrefix(path, prefix)
			break
		}
	}

	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// WithCORS заголовки CORS, транспорт вызывает его и для ответов, собранных до роутера
func (r *Router) WithCORS(resp *domain.Response) {
	if resp == nil {
		return
	}
	if resp.Headers == nil {
		resp.Headers = map[string]string{"Content-Type": "application/json"}
	}
	resp.Headers["Access-Control-Allow-Origin"] = r.cfg.CORSOrigin
}

func allowed(methods map[string]handlerFunc) string {
	names := make([]string, 0, len(methods))
	for m := range methods {
		names = append(names, m)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
