// Package axe is the HTTP client for the external accessibility scan engine
// (an axe runner service). The engine is an opaque black box: it takes a page
// URL plus reporting options and returns a flat issue list.
package axe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

// clientTimeout is a hard transport-level cap; per-request deadlines come
// from the caller's context.
const clientTimeout = 2 * time.Minute

// Client calls the scan engine's /scan endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a scan engine client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: clientTimeout},
		logger:     logger.Named("axe"),
	}
}

type scanRequest struct {
	URL             string   `json:"url"`
	IncludeWarnings bool     `json:"includeWarnings"`
	IncludeNotices  bool     `json:"includeNotices"`
	Rules           []string `json:"rules,omitempty"`
}

type scanResponse struct {
	Issues []domain.Issue `json:"issues"`
}

// Scan runs the engine against pageURL and returns the raw issue list.
// Engine failures, bad statuses, and timeouts are all reported as upstream
// errors so the request boundary can map them to one status.
func (c *Client) Scan(ctx context.Context, pageURL string, opts domain.ScanOptions) ([]domain.Issue, error) {
	endpoint, err := url.JoinPath(c.baseURL, "scan")
	if err != nil {
		return nil, fmt.Errorf("build scan URL: %w", err)
	}

	body, err := json.Marshal(scanRequest{
		URL:             pageURL,
		IncludeWarnings: opts.IncludeWarnings,
		IncludeNotices:  opts.IncludeNotices,
		Rules:           opts.Rules,
	})
	if err != nil {
		return nil, fmt.Errorf("encode scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("scanning page", zap.String("url", pageURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: engine returned %d: %s", apperrors.ErrUpstream, resp.StatusCode, snippet)
	}

	var out scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode engine response: %v", apperrors.ErrUpstream, err)
	}
	return out.Issues, nil
}
