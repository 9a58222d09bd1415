package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"go.uber.org/zap"
)

// Client fetches resource collections from the cricket data provider. The
// provider wraps every collection in a {"data": [...]} envelope.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("UpstreamClient"),
	}
}

func (c *Client) FetchCollection(ctx context.Context, t resource.Type) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s?api_token=%s", c.baseURL, t, url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ierr.ErrUpstreamFetch, t, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upstream request failed", zap.String("resource_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("%w: fetching %s: %v", ierr.ErrUpstreamFetch, t, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("Upstream returned non-2xx status",
			zap.String("resource_type", string(t)),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: fetching %s: HTTP error! status: %d", ierr.ErrUpstreamFetch, t, resp.StatusCode)
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", ierr.ErrUpstreamFetch, t, err)
	}

	c.logger.Debug("Fetched upstream collection",
		zap.String("resource_type", string(t)),
		zap.Int("records", len(envelope.Data)),
	)
	return envelope.Data, nil
}
