package gatewayController

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/http"
	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/services/identity"
)

// identityRouter отвечает личностью, которую извлёк настоящий экстрактор
type identityRouter struct {
	got *domain.Request
}

func (r *identityRouter) Handle(ctx context.Context, req *domain.Request) *domain.Response {
	r.got = req
	id, err := identity.New(discardLog()).Extract(req.Event)
	if err != nil {
		return domain.Unauthorized()
	}
	return domain.NewResponse(http.StatusOK, map[string]string{"user_id": id.UserID, "email": id.Email})
}

func (r *identityRouter) WithCORS(resp *domain.Response) {
	resp.Headers["Access-Control-Allow-Origin"] = "*"
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(cfg *Config, r *identityRouter) http.Handler {
	gin.SetMode(gin.TestMode)
	srv := server.NewHTTPServer(&server.Config{Port: "0"}, discardLog(), New(cfg, r, discardLog()))
	return srv.Handler
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestForward_VerifiedToken(t *testing.T) {
	r := &identityRouter{}
	h := newHandler(&Config{JWTSecret: "s3cret"}, r)

	req := httptest.NewRequest(http.MethodPost, "/default/profile?x=1", strings.NewReader(`{"a":1}`))
	req.Header.Set("Authorization", "Bearer "+sign(t, "s3cret", jwt.MapClaims{"sub": "user-1", "email": "a@b.c"}))
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"user-1","email":"a@b.c"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.NotNil(t, r.got)
	assert.Equal(t, "req-42", r.got.ID)
	assert.Equal(t, "/default/profile", r.got.Path)
	assert.Equal(t, http.MethodPost, r.got.Method)
	assert.Equal(t, `{"a":1}`, string(r.got.Body))
}

func TestForward_WrongSecretIsUnauthorized(t *testing.T) {
	r := &identityRouter{}
	h := newHandler(&Config{JWTSecret: "s3cret"}, r)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "other", jwt.MapClaims{"sub": "user-1"}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeUnauthorized)
}

func TestForward_UnverifiedModeTrustsToken(t *testing.T) {
	r := &identityRouter{}
	h := newHandler(&Config{InsecureSkipVerify: true}, r)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "whatever", jwt.MapClaims{"sub": "user-7"}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"user-7","email":""}`, rec.Body.String())
}

func TestForward_UnsignedTokenRejectedWithoutOptIn(t *testing.T) {
	r := &identityRouter{}
	h := newHandler(&Config{}, r)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "whatever", jwt.MapClaims{"sub": "user-7"}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeUnauthorized)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.NoError(t, (&Config{JWTSecret: "s3cret"}).Validate())
	assert.NoError(t, (&Config{InsecureSkipVerify: true}).Validate())
}

func TestForward_NoTokenIsUnauthorized(t *testing.T) {
	r := &identityRouter{}
	h := newHandler(&Config{InsecureSkipVerify: true}, r)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, r.got)
	assert.NotEmpty(t, r.got.ID)
}

func TestForward_EmptyBodyResponse(t *testing.T) {
	noContent := routerFunc(func(ctx context.Context, req *domain.Request) *domain.Response {
		resp := domain.NewResponse(http.StatusNoContent, nil)
		resp.Headers["Access-Control-Allow-Origin"] = "*"
		return resp
	})

	gin.SetMode(gin.TestMode)
	srv := server.NewHTTPServer(&server.Config{}, discardLog(), New(&Config{}, noContent, discardLog()))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/chat", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

type routerFunc func(ctx context.Context, req *domain.Request) *domain.Response

func (f routerFunc) Handle(ctx context.Context, req *domain.Request) *domain.Response {
	return f(ctx, req)
}

func (f routerFunc) WithCORS(resp *domain.Response) {}
