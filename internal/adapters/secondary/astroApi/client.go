package astroApi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
)

const GetNatalChart = "charts/natal"

// Client клиент астрологического API
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент для работы с астро-API
func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		Log: log,
	}
}

// buildURL собирает полный URL из BaseURL, ApiVersion и endpoint
func (c *Client) buildURL(endpoint string) string {
	baseURL := strings.TrimSuffix(c.cfg.BaseURL, "/")
	return baseURL + "/" + path.Join(c.cfg.ApiVersion, endpoint)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.ApiKey)
	}
}

// CalculateNatalChart рассчитывает натальную карту через API
func (c *Client) CalculateNatalChart(ctx context.Context, req NatalChartRequest) (*NatalChartResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(GetNatalChart), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("astro API returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", logger.Truncate(string(body), 200),
		)
		return nil, fmt.Errorf("astro API error [status=%d]: %s", resp.StatusCode, logger.Truncate(string(body), 500))
	}

	var chartResp NatalChartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		c.Log.Debug("failed to unmarshal astro API response",
			"error", err,
			"body_preview", logger.Truncate(string(body), 200),
		)
		return nil, fmt.Errorf("astro API unmarshal failed: %w", err)
	}

	if chartResp.Status != "" && chartResp.Status != "success" {
		return nil, fmt.Errorf("astro API returned error: status=%s, code=%d, message=%s",
			chartResp.Status, chartResp.Code, chartResp.Message)
	}
	if chartResp.Data == nil {
		return nil, fmt.Errorf("astro API returned empty chart")
	}

	return &chartResp, nil
}
