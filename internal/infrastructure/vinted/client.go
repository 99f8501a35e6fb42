// Package vinted is a thin client for the public Vinted catalog API,
// used to sample sold listings for market price analysis.
package vinted

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/revendo/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrAuthFailed  = errors.New("vinted: authentication failed")
	ErrUnavailable = errors.New("vinted: service unavailable")
)

// SoldItem is one sold listing returned by the catalog search
type SoldItem struct {
	Title       string
	Price       decimal.Decimal
	Brand       string
	Condition   string
	SellerLogin string
}

// Client calls the Vinted catalog API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxResults int
	logger     *zap.Logger
}

// NewClient creates a client from market configuration
func NewClient(cfg config.MarketConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}
}

// catalog API wire types; prices arrive as strings
type catalogResponse struct {
	Items []catalogItem `json:"items"`
}

type catalogItem struct {
	Title string `json:"title"`
	Price struct {
		Amount string `json:"amount"`
	} `json:"price"`
	BrandTitle string `json:"brand_title"`
	Status     string `json:"status"`
	User       struct {
		Login string `json:"login"`
	} `json:"user"`
}

// SearchSold fetches sold listings matching the search text.
// Items with an unparseable price are skipped rather than failing the run.
func (c *Client) SearchSold(ctx context.Context, accessToken, searchText string) ([]SoldItem, error) {
	endpoint := c.baseURL + "/api/v2/catalog/items"

	params := url.Values{}
	params.Set("search_text", searchText)
	params.Set("order", "relevance")
	params.Set("is_for_sale", "0")
	params.Set("per_page", strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("vinted: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthFailed
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	items := make([]SoldItem, 0, len(payload.Items))
	for _, raw := range payload.Items {
		price, err := decimal.NewFromString(raw.Price.Amount)
		if err != nil {
			c.logger.Debug("skipping listing with bad price",
				zap.String("title", raw.Title),
				zap.String("amount", raw.Price.Amount))
			continue
		}
		items = append(items, SoldItem{
			Title:       raw.Title,
			Price:       price,
			Brand:       raw.BrandTitle,
			Condition:   raw.Status,
			SellerLogin: raw.User.Login,
		})
	}
	return items, nil
}
